package client

import (
	"github.com/lumenvox/go-stream-sdk/logging"

	"log/slog"
	"sync"
)

var (
	packageLogger     *slog.Logger
	loggerInitialized bool
	loggerMu          sync.Mutex
)

func getLogger() *slog.Logger {

	loggerMu.Lock()
	defer loggerMu.Unlock()

	if loggerInitialized {
		return packageLogger
	}

	logger, initialized := logging.GetLogger()
	packageLogger = logger.With("component", "client")
	if initialized {
		loggerInitialized = true
	}

	return packageLogger
}
