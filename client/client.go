package client

import (
	"github.com/lumenvox/go-stream-sdk/auth"
	"github.com/lumenvox/go-stream-sdk/config"
	"github.com/lumenvox/go-stream-sdk/connection"
	"github.com/lumenvox/go-stream-sdk/dispatch"
	"github.com/lumenvox/go-stream-sdk/session"
	"github.com/lumenvox/go-stream-sdk/stream"

	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumenvox/protos-go/lumenvox/api"
)

const defaultStreamTimeout = 5 * time.Minute

// SdkClient represents a client object with knowledge of API connectivity. It
// is primarily used to open streams and create sessions and settings objects.
type SdkClient struct {
	Connection   *connection.GrpcConnection
	DeploymentId string

	// OperatorId is sent with every session create. When empty, each session
	// gets a random one.
	OperatorId string

	// StreamTimeout bounds the lifetime of every stream opened by the client.
	StreamTimeout time.Duration

	// ResponseTimeout, when positive, replaces the default response timeout
	// of every new session.
	ResponseTimeout time.Duration

	lumenvoxClient api.LumenVoxClient
}

// CreateSdkClient attempts to create a client object with the provided
// connection settings. apiEndpoint should contain the address of the
// lumenvox-api, and deploymentId should contain your deployment ID.
//
// Most users will want to enable TLS. To do this, tlsEnabled must be true.
// Depending on your environment, you may need to provide a root certificate
// using certificatePath. allowInsecureTls may be used to avoid this
// requirement, but this setting should not be used in production.
func CreateSdkClient(apiEndpoint string, tlsEnabled bool, certificatePath string, allowInsecureTls bool,
	deploymentId string) (client *SdkClient, err error) {

	connectionConfig := connection.GrpcConnectionConfig{
		TlsEnabled:       tlsEnabled,
		ApiEndpoint:      apiEndpoint,
		CertificatePath:  certificatePath,
		AllowInsecureTls: allowInsecureTls,
	}

	conn, err := connection.CreateNewConnection(connectionConfig)
	if err != nil {
		return nil, err
	}

	return NewClient(conn, deploymentId), nil
}

// NewSdkClientFromConfig creates a connection and client from loaded
// configuration values. When a username is configured, every stream is
// authenticated with a token from the configured identity provider.
func NewSdkClientFromConfig(cfg *config.ConfigValues) (client *SdkClient, err error) {

	if cfg == nil {
		return nil, errors.New("missing configuration")
	}

	connectionConfig := connection.GrpcConnectionConfig{
		TlsEnabled:       cfg.EnableTls,
		ApiEndpoint:      cfg.ApiEndpoint,
		CertificatePath:  cfg.CertificatePath,
		AllowInsecureTls: cfg.AllowInsecureTls,
		MaxMessageMb:     cfg.MaxMessageMb,
	}

	if cfg.Username != "" {
		provider := auth.NewCognitoProvider(auth.AuthSettings{
			AuthUrl:     cfg.IdpEndpoint,
			ClientId:    cfg.ClientId,
			SecretHash:  cfg.SecretHash,
			AuthHeaders: cfg.GetAuthHeaders(),
			Username:    cfg.Username,
			Password:    cfg.Password,
		}, nil)
		provider.RequireTls = cfg.EnableTls
		connectionConfig.PerRpcCredentials = provider
	}

	conn, err := connection.CreateNewConnection(connectionConfig)
	if err != nil {
		return nil, err
	}

	client = NewClient(conn, cfg.DeploymentId)
	client.OperatorId = cfg.OperatorId
	if cfg.StreamTimeoutSec > 0 {
		client.StreamTimeout = cfg.StreamTimeout()
	}
	if cfg.TakeTimeoutMs > 0 {
		client.ResponseTimeout = cfg.TakeTimeout()
	}

	return client, nil
}

// NewClient wraps an existing connection. The connection may be shared by
// several clients.
func NewClient(conn *connection.GrpcConnection, deploymentId string) *SdkClient {

	return &SdkClient{
		Connection:     conn,
		DeploymentId:   deploymentId,
		StreamTimeout:  defaultStreamTimeout,
		lumenvoxClient: api.NewLumenVoxClient(conn.ApiConnection),
	}
}

// NewDispatcher returns a dispatcher for one workflow. Sessions and global
// streams are created inside its Run.
func (client *SdkClient) NewDispatcher() *dispatch.Dispatcher {

	return dispatch.NewDispatcher()
}

func (client *SdkClient) streamContext(ctx context.Context) (context.Context, context.CancelFunc) {

	streamTimeout := client.StreamTimeout
	if streamTimeout <= 0 {
		streamTimeout = defaultStreamTimeout
	}

	return context.WithTimeout(ctx, streamTimeout)
}

// OpenSessionStream starts a session RPC limited to the client's stream
// timeout. The returned cancel function ends the stream.
func (client *SdkClient) OpenSessionStream(ctx context.Context) (
	sessionStream *stream.SessionStream, cancel context.CancelFunc, err error) {

	streamCtx, cancel := client.streamContext(ctx)

	sessionStream, err = stream.OpenSessionStream(streamCtx, client.lumenvoxClient)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	return sessionStream, cancel, nil
}

// OpenGlobalStream starts a global RPC and registers it with dispatcher, so
// that global events and settings can be taken from it. It must be called
// inside dispatcher.Run.
func (client *SdkClient) OpenGlobalStream(ctx context.Context, dispatcher *dispatch.Dispatcher) (
	globalStream *stream.GlobalStream, cancel context.CancelFunc, err error) {

	streamCtx, cancel := client.streamContext(ctx)

	globalStream, err = stream.OpenGlobalStream(streamCtx, client.lumenvoxClient)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	if err = dispatcher.RegisterGlobalStream(globalStream); err != nil {
		_ = globalStream.CloseSend()
		cancel()
		return nil, nil, fmt.Errorf("registering global stream: %w", err)
	}

	return globalStream, cancel, nil
}

// NewSession opens a session stream and creates a session on it. It must be
// called inside dispatcher.Run. Closing the session ends the stream.
//
// audioConfig controls the audio configuration: streaming/batch, audio
// format, sample rate, etc.
func (client *SdkClient) NewSession(ctx context.Context, dispatcher *dispatch.Dispatcher,
	audioConfig session.AudioConfig) (newSession *session.Session, err error) {

	operatorId := client.OperatorId
	if operatorId == "" {
		operatorId = uuid.NewString()
	}

	sessionStream, cancel, err := client.OpenSessionStream(ctx)
	if err != nil {
		return nil, err
	}

	newSession, err = session.Create(ctx, dispatcher, sessionStream, client.DeploymentId, operatorId, audioConfig)
	if err != nil {
		_ = sessionStream.CloseSend()
		cancel()
		return nil, err
	}
	newSession.SessionCancel = cancel
	if client.ResponseTimeout > 0 {
		newSession.ResponseTimeout = client.ResponseTimeout
	}

	getLogger().Info("session created",
		"sessionId", newSession.SessionId,
		"deploymentId", client.DeploymentId)

	return newSession, nil
}

// Close releases the underlying connection.
func (client *SdkClient) Close() error {

	return client.Connection.Close()
}
