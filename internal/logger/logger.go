// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

// Setup builds the root logger from the configured level and format ("json"
// or "text"), installs it as the slog default, and returns it. Call once at
// startup; everything downstream receives it by injection.
func Setup(level, format string) *slog.Logger {
	parsed := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     parsed,
		AddSource: parsed == slog.LevelDebug,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
