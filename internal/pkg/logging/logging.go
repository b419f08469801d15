// Package logging configures structured logging: tint in development, JSON
// in production.
//
// LOG_LEVEL accepts debug, info, warn or error (default: info).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger. Development mode writes colored
// output with source locations; production writes JSON lines.
func Setup(level string, development bool) {
	slog.SetDefault(New(os.Stderr, ParseLevel(level), development))
}

// New builds a logger writing to w
func New(w io.Writer, level slog.Level, development bool) *slog.Logger {
	if !development {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		AddSource:  true,
	}))
}

// ParseLevel maps a LOG_LEVEL value to a slog level
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
