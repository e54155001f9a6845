// Package logging configures the structured logger shared by the sync run.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// New creates a console logger writing to stderr. Verbose enables debug level.
func New(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewWithWriter creates a logger with a custom writer, for tests.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// WithContext attaches the logger to the context.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger attached to the context, or a disabled
// logger if none is attached.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
