// Package logging builds the desktop's slog loggers.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/mominos/mominos/internal/config"
)

// ParseLevel converts a config level name to a slog level.
func ParseLevel(s string) slog.Level {
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

// New returns a text logger. Records go to cfg.File with rotation when a file
// is set, otherwise to fallback. The returned close function releases the file.
func New(cfg config.LoggingConfig, fallback io.Writer) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if strings.TrimSpace(cfg.File) == "" {
		return slog.New(slog.NewTextHandler(fallback, opts)), func() error { return nil }, nil
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	f, err := OpenRotating(cfg.File, int64(maxSize)*1024*1024, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
