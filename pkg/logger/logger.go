package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger wraps zerolog to provide a simplified API for the workflow engine.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	if opts.HumanReadable {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}
	return &Logger{base: zerolog.New(writer).Level(level).With().Timestamp().Logger()}, nil
}

// Nop returns a logger that discards every entry.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// ParseLevel converts a level name into a zerolog level, defaulting to info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(name))
}

// WithLevel returns a derived logger filtering at the named level.
func (l *Logger) WithLevel(name string) (*Logger, error) {
	if l == nil {
		return nil, nil
	}
	level, err := ParseLevel(name)
	if err != nil {
		return nil, err
	}
	derived := Logger{base: l.base.Level(level)}
	return &derived, nil
}

// Enabled reports whether entries at the named level would be written.
func (l *Logger) Enabled(name string) bool {
	if l == nil {
		return false
	}
	level, err := ParseLevel(name)
	if err != nil {
		return false
	}
	return level >= l.base.GetLevel()
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}

	derived := Logger{base: builder.Logger()}
	return &derived
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) { l.write(zerolog.InfoLevel, nil, msg) }

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) { l.write(zerolog.DebugLevel, nil, msg) }

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) { l.write(zerolog.WarnLevel, nil, msg) }

// Error writes an error log entry including err when present.
func (l *Logger) Error(err error, msg string) { l.write(zerolog.ErrorLevel, err, msg) }

// Log writes msg at the named level. Unknown levels fall back to info.
func (l *Logger) Log(name string, msg string) {
	level, err := ParseLevel(name)
	if err != nil {
		level = zerolog.InfoLevel
	}
	l.write(level, nil, msg)
}

func (l *Logger) write(level zerolog.Level, err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.WithLevel(level)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
