package auth

import (
	"github.com/lumenvox/go-stream-sdk/logging"

	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"google.golang.org/grpc/credentials"
)

var enableVerboseLogging = func() bool {
	return os.Getenv("LUMENVOX_STREAM_SDK__ENABLE_VERBOSE_LOGGING") == "true"
}()

// AuthSettings defines the configuration required for authentication,
// including credentials and headers.
type AuthSettings struct {
	AuthUrl     string // OAuth endpoint URL
	ClientId    string
	SecretHash  string
	AuthHeaders map[string]string
	Username    string
	Password    string
}

func defaultAuthHeaders() map[string]string {

	return map[string]string{
		"Content-Type": "application/x-amz-json-1.1",
		"X-Amz-Target": "AWSCognitoIdentityProviderService.InitiateAuth",
	}
}

// validate reports the first required setting that is missing.
func (authSettings AuthSettings) validate() error {

	required := []struct {
		name  string
		value string
	}{
		{"auth_url", authSettings.AuthUrl},
		{"username", authSettings.Username},
		{"client_id", authSettings.ClientId},
		{"secret_hash", authSettings.SecretHash},
		{"password", authSettings.Password},
	}

	for _, setting := range required {
		if setting.value == "" {
			return fmt.Errorf("%s is required", setting.name)
		}
	}

	return nil
}

// CognitoProvider uses AWS Cognito to fetch tokens. It can be handed to a
// gRPC connection as per-RPC credentials, in which case every stream carries
// a fresh bearer token.
type CognitoProvider struct {
	Settings AuthSettings
	Client   *http.Client

	// RequireTls is reported to gRPC through RequireTransportSecurity.
	RequireTls bool

	mu          sync.RWMutex
	cachedToken string
	tokenExpiry time.Time
}

var _ credentials.PerRPCCredentials = (*CognitoProvider)(nil)

var (
	globalCognitoProvider *CognitoProvider
	globalOnce            sync.Once
	tokenRefreshMinimum   = 30 * time.Minute
)

// NewCognitoProvider returns a provider that fetches tokens with httpClient.
// A nil httpClient gets a client with a 10 second timeout.
func NewCognitoProvider(settings AuthSettings, httpClient *http.Client) *CognitoProvider {

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &CognitoProvider{
		Settings:   settings,
		Client:     httpClient,
		RequireTls: true,
	}
}

// GetGlobalCognitoProvider initializes a single global instance safely
// and returns the same instance each subsequent call.
func GetGlobalCognitoProvider(settings AuthSettings) *CognitoProvider {

	globalOnce.Do(func() {
		globalCognitoProvider = NewCognitoProvider(settings, nil)
	})

	return globalCognitoProvider
}

// initiateAuthRequest is the body of a Cognito InitiateAuth call using the
// USER_PASSWORD_AUTH flow.
type initiateAuthRequest struct {
	AuthFlow       string            `json:"AuthFlow"`
	ClientId       string            `json:"ClientId"`
	AuthParameters map[string]string `json:"AuthParameters"`
}

type initiateAuthResponse struct {
	AuthenticationResult struct {
		AccessToken string `json:"AccessToken"`
		ExpiresIn   int    `json:"ExpiresIn"`
	} `json:"AuthenticationResult"`
	ChallengeName string `json:"ChallengeName"`
}

// cachedTokenLocked returns the cached token while it is outside the refresh
// window. The caller holds mu.
func (cognitoProvider *CognitoProvider) cachedTokenLocked() (string, bool) {

	if cognitoProvider.cachedToken == "" || time.Until(cognitoProvider.tokenExpiry) <= tokenRefreshMinimum {
		return "", false
	}

	return cognitoProvider.cachedToken, true
}

// GetToken returns an access token for the API, asking Cognito for a new
// one when the cached token is missing or close to expiry.
func (cognitoProvider *CognitoProvider) GetToken(ctx context.Context) (string, error) {

	cognitoProvider.mu.RLock()
	token, ok := cognitoProvider.cachedTokenLocked()
	cognitoProvider.mu.RUnlock()
	if ok {
		return token, nil
	}

	cognitoProvider.mu.Lock()
	defer cognitoProvider.mu.Unlock()

	// a concurrent caller may have refreshed it
	if token, ok = cognitoProvider.cachedTokenLocked(); ok {
		return token, nil
	}

	if err := cognitoProvider.Settings.validate(); err != nil {
		return "", err
	}

	if enableVerboseLogging {
		logger, _ := logging.GetLogger()
		logger.Debug("requesting access token",
			"authUrl", cognitoProvider.Settings.AuthUrl,
			"username", cognitoProvider.Settings.Username)
	}

	result, err := cognitoProvider.initiateAuth(ctx)
	if err != nil {
		return "", err
	}

	cognitoProvider.cachedToken = result.AuthenticationResult.AccessToken
	cognitoProvider.tokenExpiry = time.Now().Add(time.Duration(result.AuthenticationResult.ExpiresIn) * time.Second)

	return cognitoProvider.cachedToken, nil
}

// initiateAuth performs one InitiateAuth round trip. A reply without an
// access token (a pending challenge) is an error.
func (cognitoProvider *CognitoProvider) initiateAuth(ctx context.Context) (*initiateAuthResponse, error) {

	settings := cognitoProvider.Settings
	body, err := json.Marshal(initiateAuthRequest{
		AuthFlow: "USER_PASSWORD_AUTH",
		ClientId: settings.ClientId,
		AuthParameters: map[string]string{
			"USERNAME":    settings.Username,
			"PASSWORD":    settings.Password,
			"SECRET_HASH": settings.SecretHash,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding auth request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.AuthUrl, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building auth request: %w", err)
	}

	headers := settings.AuthHeaders
	if len(headers) == 0 {
		headers = defaultAuthHeaders()
	}
	for name, value := range headers {
		request.Header.Set(name, value)
	}

	response, err := cognitoProvider.Client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("auth request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return nil, fmt.Errorf("unexpected status %s from identity provider: %s", response.Status, detail)
	}

	result := &initiateAuthResponse{}
	if err = json.NewDecoder(response.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}

	if result.AuthenticationResult.AccessToken == "" {
		return nil, fmt.Errorf("no access token issued, challenge %q pending", result.ChallengeName)
	}

	return result, nil
}

// GetRequestMetadata attaches the bearer token to an outgoing RPC.
func (cognitoProvider *CognitoProvider) GetRequestMetadata(ctx context.Context, uri ...string) (
	map[string]string, error) {

	token, err := cognitoProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching access token: %w", err)
	}

	return map[string]string{
		"authorization": "Bearer " + token,
	}, nil
}

func (cognitoProvider *CognitoProvider) RequireTransportSecurity() bool {

	return cognitoProvider.RequireTls
}
