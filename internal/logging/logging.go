// Package logging sets up the application logger. The terminal belongs to
// the UI, so logs go to a file under the XDG state directory.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	appName     = "melodia"
	logFileName = "melodia.log"
)

// DefaultPath returns the log file location under the XDG state dir.
func DefaultPath() (string, error) {
	return xdg.StateFile(filepath.Join(appName, logFileName))
}

// Open creates a logger appending to path (the default location when path
// is empty). The returned closer flushes and closes the file.
func Open(path, level string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return zerolog.Nop(), nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return New(f, level), f, nil
}

// New creates a logger writing JSON lines to w. Each logger carries a run
// id so interleaved runs in one file can be told apart.
func New(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("run", uuid.NewString()[:8]).
		Logger()
}

// ParseLevel maps a config level name to a zerolog level; unknown names
// mean info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
