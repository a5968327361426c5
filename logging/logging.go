package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	defaultLogger     = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger            *slog.Logger
	loggerInitialized = false
	loggerMu          sync.RWMutex
)

// init initializes the default logger.
func init() {
	// Anyone requesting a logger before CreateLogger or SetLogger gets the
	// default one and is expected to ask again later.
	logger = defaultLogger
}

// LoggerOptions selects where log records are written.
type LoggerOptions struct {
	// OtelBridge sends records to the global OpenTelemetry logger provider
	// instead of stdout.
	OtelBridge bool
}

// CreateLogger initializes and returns a new logger configured with the
// desired log level and service name.
func CreateLogger(levelStr string, serviceName string) *slog.Logger {

	return CreateLoggerWithOptions(levelStr, serviceName, LoggerOptions{})
}

// CreateLoggerWithOptions is CreateLogger with a choice of backend.
func CreateLoggerWithOptions(levelStr string, serviceName string, options LoggerOptions) *slog.Logger {

	logLevel, logLevelErr := GetLogLevel(levelStr)
	// Note: handling error after logging has been initialized below

	var newLogger *slog.Logger
	if options.OtelBridge {
		// level filtering is left to the provider's processors
		newLogger = otelslog.NewLogger(serviceName)
	} else {
		newLogger = slog.New(slog.NewJSONHandler(os.Stdout,
			&slog.HandlerOptions{
				Level: logLevel,
			})).With("service", serviceName)
	}

	SetLogger(newLogger)

	returnedLogger, _ := GetLogger()
	if logLevelErr != nil {
		returnedLogger.Error(fmt.Sprintf("unable to get log level: %v", logLevelErr))
	}

	return returnedLogger
}

// GetLogLevel converts a string to slog.Level
func GetLogLevel(levelStr string) (slog.Level, error) {

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		if levelStr == "warning" || levelStr == "WARNING" {
			return slog.LevelWarn, nil
		}
		return slog.LevelInfo, errors.New("invalid log level: use debug, info, warn, or error")
	}

	return level, nil
}

// SetLogger allows customers to inject their own logger.
func SetLogger(customLogger *slog.Logger) {

	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = customLogger
	loggerInitialized = true
}

// GetLogger safely retrieves the current logger, and whether it was
// initialized, or is using the default.
func GetLogger() (*slog.Logger, bool) {

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger, loggerInitialized
}

