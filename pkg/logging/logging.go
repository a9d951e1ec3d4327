// Package logging builds the zerolog loggers used across sourcepad. The TUI
// owns the terminal, so interactive sessions log to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Options controls logger construction
type Options struct {
	// Path of the log file; empty drops all output
	Path string
	// Level name as understood by zerolog; invalid names fall back to info
	Level string
	// Debug forces the debug level
	Debug bool
	// Pretty writes human readable lines instead of JSON
	Pretty bool
}

// ParseLevel resolves a level name, defaulting to info
func ParseLevel(name string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Setup opens the log file and returns a logger writing to it. The returned
// closer must be closed when the program exits.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	if opts.Path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("could not open file for logging: %w", err)
	}

	var w io.Writer = file
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: file, NoColor: true}
	}
	return New(w, ParseLevel(opts.Level, opts.Debug)), file, nil
}

// New returns a logger with timestamp and caller fields
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}

// Console returns a logger for non-interactive commands, writing to stderr
func Console(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
