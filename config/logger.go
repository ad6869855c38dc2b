package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a *slog.Logger writing to stderr from the given Logging config.
func NewLogger(cfg Logging) *slog.Logger {
	return NewLoggerTo(os.Stderr, cfg)
}

// NewLoggerTo creates a *slog.Logger writing to w with a "service" attribute on every record.
func NewLoggerTo(w io.Writer, cfg Logging) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
