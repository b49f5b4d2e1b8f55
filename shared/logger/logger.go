// Package logger builds the zap logger and carries request scoped loggers in contexts.
package logger

import (
	"context"

	"go.uber.org/zap"

	"madajob-backend/shared/config"
)

type ctxKey struct{}

// New returns a JSON production logger outside local development.
func New(env config.Environment) (*zap.Logger, error) {
	if env == config.EnvironmentLocal {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger, or a no-op logger when none is attached.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
