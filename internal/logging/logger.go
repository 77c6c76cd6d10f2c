// Package logging builds the CLI's zerolog logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Rotation limits for the optional log file.
const (
	maxFileSizeMB  = 10
	maxFileBackups = 3
	maxFileAgeDays = 28
)

// ErrInvalidFormat is returned for an unknown log format.
var ErrInvalidFormat = errors.New("invalid log format")

// Options configures New.
type Options struct {
	Format  string    // "console" (default) or "json"
	Level   string    // zerolog level name; empty = info
	File    string    // optional path of a rotated JSON log file
	NoColor bool      // disable ANSI colors in console output
	Writer  io.Writer // primary sink, usually os.Stderr
}

// New returns a logger writing to opts.Writer and, when opts.File is set, to
// a size-rotated JSON file. The returned closer flushes and closes the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("parsing log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	var primary io.Writer
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		primary = zerolog.ConsoleWriter{
			Out:        opts.Writer,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
		}
	case FormatJSON:
		primary = opts.Writer
	default:
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("%w: %q (must be console or json)", ErrInvalidFormat, opts.Format)
	}

	var closer io.Closer = nopCloser{}
	w := primary
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxFileBackups,
			MaxAge:     maxFileAgeDays,
		}
		closer = file
		w = zerolog.MultiLevelWriter(primary, file)
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// LevelFor maps the CLI's quiet/verbose switches to a level name.
func LevelFor(quiet, verbose bool) string {
	switch {
	case quiet:
		return zerolog.LevelErrorValue
	case verbose:
		return zerolog.LevelDebugValue
	default:
		return zerolog.LevelInfoValue
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
