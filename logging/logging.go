// Package logging provides the shared structured logger for vibeshell.
//
// All components derive their logger from one slog text handler writing to
// stderr. The level comes from VIBESHELL_LOG_LEVEL (debug, info, warn,
// error) and can be changed later with SetLevel, e.g. from config.
//
//	log := logging.New("tabs")
//	log.Debug("tab added", "id", tab.ID(), "index", i)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	initLogger sync.Once
	baseLogger *slog.Logger
	level      = new(slog.LevelVar)
)

// New returns a logger tagged with component. An empty component returns
// the base logger.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		level.Set(ParseLevel(os.Getenv("VIBESHELL_LOG_LEVEL")))
		baseLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// SetLevel changes the level of every logger returned by New.
func SetLevel(value string) {
	level.Set(ParseLevel(value))
}

// Discard returns a logger that drops everything. Tests use it to keep
// output quiet.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a level name to a slog.Level. Unknown values map
// to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
