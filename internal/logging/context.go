package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type contextKey struct{}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithDocument returns a context whose logger tags every line with the
// document being viewed. Standard input is reported as "-".
func WithDocument(ctx context.Context, name string) context.Context {
	if name == "" {
		name = "-"
	}
	return WithLogger(ctx, FromContext(ctx).With(FieldDocument, name))
}
