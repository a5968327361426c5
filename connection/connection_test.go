package connection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCredentials struct{}

func (staticCredentials) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer static"}, nil
}

func (staticCredentials) RequireTransportSecurity() bool { return false }

func TestCreateNewConnectionRequiresEndpoint(t *testing.T) {
	_, err := CreateNewConnection(GrpcConnectionConfig{})
	assert.EqualError(t, err, "empty endpoint")
}

func TestCreateNewConnectionDefaultsMessageSize(t *testing.T) {
	conn, err := CreateNewConnection(GrpcConnectionConfig{
		ApiEndpoint:       "localhost:8280",
		PerRpcCredentials: staticCredentials{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	assert.Equal(t, 4, conn.ConnectionConfig.MaxMessageMb)
	assert.NotNil(t, conn.ApiConnection)
}

func TestCreateNewConnectionRejectsBadCertificate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	_, err := CreateNewConnection(GrpcConnectionConfig{
		ApiEndpoint:     "localhost:8280",
		TlsEnabled:      true,
		CertificatePath: path,
	})
	assert.ErrorContains(t, err, "no certificates found")

	_, err = CreateNewConnection(GrpcConnectionConfig{
		ApiEndpoint:     "localhost:8280",
		TlsEnabled:      true,
		CertificatePath: filepath.Join(t.TempDir(), "missing.pem"),
	})
	assert.ErrorContains(t, err, "reading certificate")
}
