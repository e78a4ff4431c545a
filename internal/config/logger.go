package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates the ledger's structured JSON logger. Every record carries
// a service attribute so log lines stay attributable when aggregated with
// other services.
func (c *LoggerConfig) NewLogger() *slog.Logger {
	level := parseLogLevel(c.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug || level == slog.LevelError,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)

	return slog.New(handler).With("service", "ledger")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
