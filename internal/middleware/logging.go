package middleware

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// loggerKey is the key used to store the logger in the context.
// Using a custom type prevents collisions.
type contextKey string

const loggerKey = contextKey("logger")

// NewLogger builds the process logger. format is "json" or "text"; level is
// one of debug, info, warn or error and defaults to info.
func NewLogger(format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithRequestLogger derives a request-scoped logger enriched with a fresh
// request ID and the acting user, and stores it and the actor ID in ctx.
func WithRequestLogger(ctx context.Context, baseLogger *slog.Logger, actorID string) context.Context {
	requestLogger := baseLogger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("actor_id", actorID),
	)
	ctx = WithActorID(ctx, actorID)
	return WithLogger(ctx, requestLogger)
}

// GetLoggerFromCtx retrieves the request-scoped logger from the context.
// It returns the default logger if none is found.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}
