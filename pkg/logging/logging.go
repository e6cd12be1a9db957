// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	logging.Setup()                              // tint, level from LOG_LEVEL env
//	logging.SetupWithLevel(slog.LevelDebug)      // explicit level override
//	logging.Configure(os.Stderr, "debug", "json") // from config values
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, "tint")))
}

// Configure installs the default logger using a level name and a format,
// either "tint" for colored console output or "json" for log shippers.
func Configure(w io.Writer, level, format string) {
	slog.SetDefault(slog.New(NewHandler(w, ParseLevel(level), format)))
}

// NewHandler builds the handler for format. Unknown formats fall back to tint.
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps a level name to a slog.Level. Anything unrecognized is INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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
