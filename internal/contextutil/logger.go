// Package contextutil carries the request-scoped logger through context so
// adapters deep in the call chain can log with the request attributes
// attached by the HTTP middleware.
package contextutil

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "logger"

// LoggerFromContext returns the logger stored in ctx, or slog.Default()
// when none was attached (background runs, tests, one-shot binaries).
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// LoggerKey returns the key under which middleware stores the logger.
func LoggerKey() contextKey {
	return loggerKey
}
