package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// InjectLogger stores a pre-tagged logger in ctx; the request logging
// middleware uses it to carry the request id into downstream log lines.
func InjectLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithCtx returns the logger stored in ctx, or the package logger when
// none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return L
}
