package connection

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// GrpcConnectionConfig contains configuration options for the gRPC connection.
// This is primarily used to manage TLS and related settings.
type GrpcConnectionConfig struct {
	TlsEnabled       bool
	ApiEndpoint      string
	CertificatePath  string
	AllowInsecureTls bool
	MaxMessageMb     int

	// PerRpcCredentials, when set, is consulted for every stream opened on the
	// connection (typically an *auth.CognitoProvider).
	PerRpcCredentials credentials.PerRPCCredentials
}

// GrpcConnection contains the actual client connection object along with its
// configuration.
type GrpcConnection struct {
	ApiConnection    *grpc.ClientConn
	ConnectionConfig GrpcConnectionConfig
}

// CreateNewConnection accepts a GrpcConnectionConfig and uses it to create a new connection to the LumenVox API.
func CreateNewConnection(connectionConfig GrpcConnectionConfig) (newConnection *GrpcConnection, err error) {

	if connectionConfig.ApiEndpoint == "" {
		return nil, errors.New("empty endpoint")
	}

	if connectionConfig.MaxMessageMb < 1 {
		// Use 4MB if not specified.
		connectionConfig.MaxMessageMb = 4
	}

	opts, err := dialOptions(connectionConfig)
	if err != nil {
		return nil, err
	}

	newConnection = &GrpcConnection{
		ConnectionConfig: connectionConfig,
	}

	newConnection.ApiConnection, err = grpc.NewClient(connectionConfig.ApiEndpoint, opts...)
	if err != nil {
		return nil, err
	}

	return newConnection, nil
}

func dialOptions(connectionConfig GrpcConnectionConfig) (opts []grpc.DialOption, err error) {

	var creds credentials.TransportCredentials
	if connectionConfig.TlsEnabled {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: connectionConfig.AllowInsecureTls,
		}
		if connectionConfig.CertificatePath != "" {
			tlsConfig.RootCAs, err = loadCertificatePool(connectionConfig.CertificatePath)
			if err != nil {
				return nil, err
			}
		}
		creds = credentials.NewTLS(tlsConfig)
	} else {
		creds = insecure.NewCredentials()
	}
	opts = append(opts, grpc.WithTransportCredentials(creds))

	if connectionConfig.PerRpcCredentials != nil {
		opts = append(opts, grpc.WithPerRPCCredentials(connectionConfig.PerRpcCredentials))
	}

	// send a keepalive ping every 5 minutes
	opts = append(opts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
		Time: 5 * time.Minute,
	}))

	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.MaxCallRecvMsgSize(connectionConfig.MaxMessageMb*1024*1024),
		grpc.MaxCallSendMsgSize(connectionConfig.MaxMessageMb*1024*1024),
	))

	return opts, nil
}

func loadCertificatePool(certificatePath string) (*x509.CertPool, error) {

	pemBytes, err := os.ReadFile(certificatePath)
	if err != nil {
		return nil, fmt.Errorf("reading certificate %s: %w", certificatePath, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("no certificates found in %s", certificatePath)
	}

	return pool, nil
}

// Close releases the underlying client connection.
func (grpcConnection *GrpcConnection) Close() error {

	if grpcConnection.ApiConnection == nil {
		return nil
	}

	return grpcConnection.ApiConnection.Close()
}
