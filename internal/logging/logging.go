// =============================================================================
// Finance Reports - Logging
// =============================================================================
//
// A single zerolog logger is created by the root command and handed to every
// component. Entries go to one JSON log file that is truncated on each run;
// with --verbose they are mirrored to stderr in console format.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFile is the log file used when none is configured.
const DefaultFile = "logs/finreport.log"

// Options controls where and how much is logged.
type Options struct {
	File    string
	Level   string
	Verbose bool

	// Console receives the mirrored output when Verbose is set,
	// os.Stderr when nil.
	Console io.Writer
}

// New opens (truncating) the log file and returns a logger writing to it.
// The returned closer must be closed when the process is done logging.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	path := opts.File
	if path == "" {
		path = DefaultFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var out io.Writer = file
	if opts.Verbose {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		})
	}

	return NewWithWriter(out).Level(level), file, nil
}

// NewWithWriter creates a logger with a custom writer (useful for testing).
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a configured level name to a zerolog level. An empty name
// means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}
