package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// WithSession returns a context carrying base tagged with the upload session
// and document name, so every stage of a load logs under the same session.
func WithSession(ctx context.Context, base *zap.Logger, sessionID, document string) context.Context {
	if base == nil {
		base = zap.NewNop()
	}
	return ContextWithLogger(ctx, base.With(
		zap.String("session", sessionID),
		zap.String("document", document),
	))
}

// ContextWithLogger stores l in ctx.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
