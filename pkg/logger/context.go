package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With stores a child logger carrying the given fields in the context.
// Handlers retrieve it through From so request-scoped fields like the
// trace id ride along automatically.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the context's logger, or the process-wide one when the
// context carries none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
