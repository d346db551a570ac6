// Package logging builds the zerolog logger used across jokefinder. The TUI
// owns the terminal, so logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options controls where and how much is logged.
type Options struct {
	Path   string    // log file; ignored when Writer is set
	Level  string    // debug, info, warn, error
	Writer io.Writer // overrides Path
}

// New returns a logger and a close function for the underlying file.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := ParseLevel(opts.Level)
	noop := func() error { return nil }

	if opts.Writer != nil {
		return zerolog.New(opts.Writer).Level(level).With().Timestamp().Logger(), noop, nil
	}
	if strings.TrimSpace(opts.Path) == "" {
		return zerolog.Nop(), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("open log: %w", err)
	}
	logger := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return logger, file.Close, nil
}

// ParseLevel maps a config value onto a zerolog level. Unknown values mean
// info.
func ParseLevel(value string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
