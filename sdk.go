package lumenvox_go_stream_sdk

import (
	"github.com/lumenvox/go-stream-sdk/client"
	"github.com/lumenvox/go-stream-sdk/config"
	"github.com/lumenvox/go-stream-sdk/connection"
)

// CreateConnection returns a gRPC connection object which can be used to create
// a client. It expects the endpoint of the API and various TLS settings.
func CreateConnection(apiEndpoint string, tlsEnabled bool, certificatePath string,
	allowInsecureTls bool) (conn *connection.GrpcConnection, err error) {

	return connection.CreateNewConnection(connection.GrpcConnectionConfig{
		TlsEnabled:       tlsEnabled,
		ApiEndpoint:      apiEndpoint,
		CertificatePath:  certificatePath,
		AllowInsecureTls: allowInsecureTls,
	})
}

// CreateClient returns an SDK client object which can be used to access other
// LumenVox SDK functionality. It expects a GrpcConnection and the deployment
// ID.
func CreateClient(conn *connection.GrpcConnection, deploymentId string) (sdkClient *client.SdkClient) {

	return client.NewClient(conn, deploymentId)
}

// CreateClientFromConfig connects using the values of a loaded settings file
// and environment, including authentication when a username is set.
func CreateClientFromConfig(cfg *config.ConfigValues) (sdkClient *client.SdkClient, err error) {

	return client.NewSdkClientFromConfig(cfg)
}
