package logger

import (
	"context"

	"go.uber.org/zap"
)

type (
	ctxKey     struct{}
	sessionKey struct{}
)

// ContextWithLogger scopes logger to a request. The HTTP middleware stores a
// logger already tagged with request_id.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithSession scopes the context logger to search session id, adding a
// session_id field once. Nested calls for the same session return ctx as is.
func WithSession(ctx context.Context, id string) context.Context {
	if cur, ok := ctx.Value(sessionKey{}).(string); ok && cur == id {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionKey{}, id)
	return ContextWithLogger(ctx, FromContext(ctx).With(zap.String("session_id", id)))
}

// FromContext returns the request or session logger, or a no-op logger when
// ctx carries none (background jobs, tests).
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
