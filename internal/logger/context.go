package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

// ContextWithLogger returns a child context carrying the logger.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the request logger carried by ctx, or a nop
// logger when the context carries none.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(contextKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
