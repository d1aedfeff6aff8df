// Package logger wraps zerolog behind the small component-tagged surface the
// rest of the application logs through.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	log zerolog.Logger
}

func New(writer io.Writer, level zerolog.Level) *Logger {
	log := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{log: log}
}

// NewConsole returns a logger writing human-readable output to stderr.
// verbose lowers the threshold to debug so periodic-check noise is visible.
func NewConsole(verbose bool) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return New(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// Nop discards everything. Used by tests and as a fallback before startup
// finishes wiring.
func Nop() *Logger {
	return &Logger{log: zerolog.Nop()}
}

func (l *Logger) Info(component, message string, fields map[string]interface{}) {
	event := l.log.Info().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Warn(component, message string, fields map[string]interface{}) {
	event := l.log.Warn().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Debug(component, message string, fields map[string]interface{}) {
	event := l.log.Debug().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Error(component string, err error, fields map[string]interface{}) {
	event := l.log.Error().Str("component", component).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("operation failed")
}
