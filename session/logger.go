package session

import (
	"github.com/lumenvox/go-stream-sdk/logging"

	"log/slog"
	"os"
	"sync"
)

var enableVerboseLogging = func() bool {
	return os.Getenv("LUMENVOX_STREAM_SDK__ENABLE_VERBOSE_LOGGING") == "true"
}()

var (
	packageLogger     *slog.Logger // logger instance used by this package
	loggerInitialized bool         // whether the main logger was initialized
	loggerMu          sync.Mutex   // protects the two vars above
)

// getLogger returns the package logger, retrying the lookup until the main
// logger has been initialized.
func getLogger() *slog.Logger {

	loggerMu.Lock()
	defer loggerMu.Unlock()

	if loggerInitialized {
		return packageLogger
	}

	logger, initialized := logging.GetLogger()
	packageLogger = logger.With("component", "session")
	if initialized {
		loggerInitialized = true
	}

	return packageLogger
}
