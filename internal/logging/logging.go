// Package logging builds the process-wide slog logger from the salespulse
// environment settings.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup creates the configured *slog.Logger, installs it as the default, and
// returns it. level accepts debug/info/warn/error (case-insensitive), falling
// back to info. format selects "json" for hosted deployments whose log
// shipper wants structured lines; anything else means human-readable text.
func Setup(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
