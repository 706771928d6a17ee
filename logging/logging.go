// Package logging configures the process-wide zerolog logger. The TUI
// owns the terminal, so interactive runs log to a state file instead of
// stderr; one-shot modes log to stderr directly.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Console returns a human-readable logger on w, usually os.Stderr.
func Console(w io.Writer, debug bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(cw).Level(level(debug)).With().Timestamp().Logger()
}

// File returns a logger appending to the state file plus a closer. If the
// file cannot be opened the logger is a no-op and close does nothing.
func File(debug bool) (zerolog.Logger, func()) {
	path := StatePath()
	if path == "" {
		return zerolog.Nop(), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	log := zerolog.New(f).Level(level(debug)).With().Timestamp().Logger()
	return log, func() { f.Close() }
}

// StatePath returns ~/.local/state/devcheck/devcheck.log (or
// XDG_STATE_HOME). Returns empty string if no home directory exists.
func StatePath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "devcheck", "devcheck.log")
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
