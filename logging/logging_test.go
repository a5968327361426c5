package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		logger = defaultLogger
		loggerInitialized = false
	})
}

func TestGetLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
	}

	for input, expected := range cases {
		level, err := GetLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	level, err := GetLogLevel("chatty")
	assert.Error(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestDefaultLoggerIsNotInitialized(t *testing.T) {
	resetLogger(t)

	current, initialized := GetLogger()
	assert.Same(t, defaultLogger, current)
	assert.False(t, initialized)
}

func TestCreateLoggerInstallsLogger(t *testing.T) {
	resetLogger(t)

	created := CreateLogger("debug", "stream-sdk-test")

	current, initialized := GetLogger()
	assert.True(t, initialized)
	assert.Same(t, created, current)
	assert.True(t, created.Enabled(context.Background(), slog.LevelDebug))
}

func TestCreateLoggerWithOtelBridge(t *testing.T) {
	resetLogger(t)

	created := CreateLoggerWithOptions("info", "stream-sdk-test", LoggerOptions{OtelBridge: true})

	require.NotNil(t, created)
	current, initialized := GetLogger()
	assert.True(t, initialized)
	assert.Same(t, created, current)
}

func TestSetLogger(t *testing.T) {
	resetLogger(t)

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	SetLogger(custom)

	current, initialized := GetLogger()
	assert.True(t, initialized)
	assert.Same(t, custom, current)
}
