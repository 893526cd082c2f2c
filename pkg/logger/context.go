package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// With derives a context whose logger carries the extra fields. Handlers use
// this to stamp the request id once and have every later log line include it.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerKey, From(ctx).With(fields...))
}

// From returns the context's logger. Contexts that never passed through With
// fall back to the process-wide logger, so From never returns nil.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
