// Package debug provides opt-in debug logging for the driver using log/slog.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// discardHandler mirrors slog.DiscardHandler (Go 1.24+) for older toolchains.
var discardHandler = slog.NewTextHandler(io.Discard, nil)

var (
	logger  = slog.New(discardHandler)
	enabled bool
	mu      sync.RWMutex
)

// Init switches debug logging on or off. When enabled, logs go to stderr as
// slog text; when disabled they are discarded.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(discardHandler)
	}
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Query logs one executed statement with its timing and outcome.
func Query(sqlText string, argCount int, duration time.Duration, err error) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	if err != nil {
		l.Debug("query failed", "sql", sqlText, "args", argCount, "duration", duration, "error", err)
		return
	}
	l.Debug("query ok", "sql", sqlText, "args", argCount, "duration", duration)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error(msg, args...)
}
