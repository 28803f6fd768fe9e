// Package logging configures the process logger. The TUI owns stdout, so
// all structured output goes to a file under the state directory.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New builds a logger writing to w at the given level. Unknown levels fall
// back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Open opens (or creates) the log file at path, creating parent directories
// as needed. On failure the returned logger discards everything: logging is
// never a reason the client fails to start.
func Open(path, level string) (zerolog.Logger, func() error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return New(io.Discard, level), func() error { return nil }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return New(io.Discard, level), func() error { return nil }
	}
	return New(f, level), f.Close
}
