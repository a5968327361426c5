package config

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/ini.v1"
)

// EnvPrefix is prepended to every configuration key when it is read from the
// environment, e.g. LUMENVOX_STREAM_SDK__API_ENDPOINT.
const EnvPrefix = "LUMENVOX_STREAM_SDK__"

// ConfigValues holds the SDK application configuration.
type ConfigValues struct {
	AppName          string `ini:"app_name"`
	AppVersion       string `ini:"app_version"`
	LogLevel         string `ini:"log_level"`
	OtelLogging      bool   `ini:"otel_logging"`
	ApiEndpoint      string `ini:"api_endpoint"`
	EnableTls        bool   `ini:"enable_tls"`
	AllowInsecureTls bool   `ini:"allow_insecure_tls"`
	CertificatePath  string `ini:"certificate_path"`
	DeploymentId     string `ini:"deployment_id"`
	OperatorId       string `ini:"operator_id"`
	Username         string `ini:"username"`
	Password         string `ini:"password"`
	IdpEndpoint      string `ini:"idp_endpoint"`
	ClientId         string `ini:"client_id"`
	SecretHash       string `ini:"secret_hash"`
	AuthHeaders      string `ini:"auth_headers"`

	// dispatcher tuning
	StreamTimeoutSec int `ini:"stream_timeout_sec"`
	TakeTimeoutMs    int `ini:"take_timeout_ms"`
	MaxMessageMb     int `ini:"max_message_mb"`

	loadedFile  string
	authHeaders map[string]string
}

var configKeys = []string{"APP_NAME", "APP_VERSION", "LOG_LEVEL", "OTEL_LOGGING", "API_ENDPOINT",
	"ENABLE_TLS", "ALLOW_INSECURE_TLS", "CERTIFICATE_PATH", "DEPLOYMENT_ID", "OPERATOR_ID",
	"USERNAME", "PASSWORD", "IDP_ENDPOINT", "CLIENT_ID", "SECRET_HASH",
	"STREAM_TIMEOUT_SEC", "TAKE_TIMEOUT_MS", "MAX_MESSAGE_MB"}

// GetConfigValues initializes a new Config instance with default values.
func GetConfigValues(iniFilepath string) (cfg *ConfigValues, err error) {

	cfg = &ConfigValues{
		// Assign default values...
		AppName:          "Stream SDK Example",
		AppVersion:       "1.0.0",
		LogLevel:         "info",
		OtelLogging:      false,
		ApiEndpoint:      "",
		EnableTls:        true,
		AllowInsecureTls: false,
		CertificatePath:  "",
		DeploymentId:     "",
		OperatorId:       "00000000-0000-0000-0000-000000000001",
		Username:         "",
		Password:         "",
		ClientId:         "",
		SecretHash:       "",
		AuthHeaders:      "",
		StreamTimeoutSec: 300,
		TakeTimeoutMs:    5000,
		MaxMessageMb:     4,
		authHeaders:      make(map[string]string),
	}

	err = cfg.Load(iniFilepath)

	return cfg, err
}

// Load initializes the configuration with an optional settings file.
// If `file` is an empty string, no file is loaded. Environment variables may
// be used to override any file-based or default values.
func (configValues *ConfigValues) Load(iniFilepath string) (err error) {

	if iniFilepath != "" {
		configFromFile, err := ini.Load(iniFilepath)
		if err != nil {
			log.Printf("Failed to load settings from file (%s): %v\n", iniFilepath, err)
		} else {
			configValues.loadedFile = iniFilepath

			// Override defaults with ini file values
			for _, section := range configFromFile.Sections() {
				for key, value := range section.KeysHash() {
					if err := configValues.setField(key, value); err != nil {
						return err
					}
				}
			}

			configValues.parseHeadersString(configValues.AuthHeaders)
		}
	}

	// Override from environment variables
	envAuthHeaders := os.Getenv(EnvPrefix + "AUTH_HEADERS")
	if envAuthHeaders != "" {
		// Note: clearing out existing header values here (otherwise they would merge)
		configValues.AuthHeaders = envAuthHeaders
		configValues.authHeaders = make(map[string]string)
		configValues.parseHeadersString(envAuthHeaders)
	}

	for _, key := range configKeys {
		envValue := os.Getenv(EnvPrefix + key)
		if envValue != "" {
			if err := configValues.setField(key, envValue); err != nil {
				return err
			}
		}
	}

	err = configValues.Validate()
	return err
}

// setField assigns value to the field named by an upper or lowercase
// snake_case key. Unknown keys are logged and ignored.
func (configValues *ConfigValues) setField(key string, value string) error {

	splitKey := strings.Split(key, "_")
	titleCaseKey := ""
	for _, part := range splitKey {
		part = cases.Title(language.English).String(strings.ToLower(part))
		titleCaseKey += part
	}

	field := reflect.ValueOf(configValues).Elem().FieldByName(titleCaseKey)
	if !field.IsValid() || !field.CanSet() {
		log.Printf("Warning: Configuration key '%s' not found in struct. Ignoring.", key)
		return nil
	}

	switch field.Kind() {
	case reflect.Bool:
		field.SetBool(strings.ToLower(value) == "true")
	case reflect.Int:
		intValue, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", strings.ToLower(key), err)
		}
		field.SetInt(int64(intValue))
	default:
		field.SetString(value)
	}

	return nil
}

// parseHeadersString parses a comma-delimited string of key=value pairs into the headers map.
func (configValues *ConfigValues) parseHeadersString(headersString string) {

	headerPairs := strings.Split(headersString, ",")
	for _, pair := range headerPairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			log.Printf("Invalid header pair: %s", pair)
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		configValues.authHeaders[key] = value
	}
}

// GetAuthHeaders returns the auth headers map
func (configValues *ConfigValues) GetAuthHeaders() map[string]string {

	return configValues.authHeaders
}

// LoadedFile returns the settings file that was applied, if any.
func (configValues *ConfigValues) LoadedFile() string {

	return configValues.loadedFile
}

// StreamTimeout bounds the lifetime of a single session or global stream.
func (configValues *ConfigValues) StreamTimeout() time.Duration {

	return time.Duration(configValues.StreamTimeoutSec) * time.Second
}

// TakeTimeout is the default wait of a session for an interaction or audio
// response.
func (configValues *ConfigValues) TakeTimeout() time.Duration {

	return time.Duration(configValues.TakeTimeoutMs) * time.Millisecond
}

// Validate checks if necessary configuration fields are provided and returns
// an error if any required field is missing.
func (configValues *ConfigValues) Validate() (err error) {

	if configValues.ApiEndpoint == "" {
		return fmt.Errorf("api_endpoint is required")
	}

	if configValues.DeploymentId == "" {
		return fmt.Errorf("deployment_id is required")
	}

	if configValues.StreamTimeoutSec <= 0 {
		return fmt.Errorf("stream_timeout_sec must be positive")
	}

	if configValues.TakeTimeoutMs < 0 {
		return fmt.Errorf("take_timeout_ms must not be negative")
	}

	if configValues.MaxMessageMb <= 0 {
		return fmt.Errorf("max_message_mb must be positive")
	}

	if configValues.Username != "" {
		// Auth enabled - validate other fields
		if configValues.IdpEndpoint == "" {
			return fmt.Errorf("idp_endpoint is required")
		}

		if configValues.ClientId == "" {
			return fmt.Errorf("client_id is required")
		}

		if configValues.SecretHash == "" {
			return fmt.Errorf("secret_hash is required")
		}

		if configValues.AuthHeaders == "" {
			return fmt.Errorf("auth_headers is required")
		}

		if configValues.Password == "" {
			return fmt.Errorf("password is required")
		}
	}

	return nil
}
