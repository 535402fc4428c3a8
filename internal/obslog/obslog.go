// Package obslog sets up the plain CLI-facing logger: a JSON-formatted
// log/slog.Logger whose level is configurable by name, used by cmd/
// entry points for startup/shutdown and fatal-error reporting. Per-problem
// structured search events go through internal/telemetry instead.
package obslog

import (
	"log/slog"
	"os"
	"strings"
)

// Setup creates and installs a JSON-handler slog.Logger at the named level
// ("debug", "info", "warn", "error"; anything else defaults to info).
func Setup(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return logger
}

// Default returns an info-level logger without installing it as the
// package-level default, for callers (like tests) that want an instance
// without mutating global state.
func Default() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
