// Package logs builds the slog loggers used by every binary in the repo.
package logs

import (
	"log/slog"
	"os"
	"strings"
)

// FromLevel returns a text logger writing to stderr at the given level.
func FromLevel(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// FromLevelString parses a level name (DEBUG, INFO, WARN, ERROR) and builds
// the logger. Unknown names fall back to INFO.
func FromLevelString(level string) *slog.Logger {
	return FromLevel(ParseLevel(level))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
