package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey carries the request-scoped logger.
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request correlation ID.
	RequestIDKey contextKey = "request_id"
	// UserIDKey carries the authenticated staff user's ID, once the JWT
	// middleware has verified the token.
	UserIDKey contextKey = "user_id"
)

// WithContext attaches the logger to the context.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger attached by WithContext. Code paths that
// run before the middleware chain (startup, migrations) get a no-op logger
// rather than a nil panic.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and returns both the new context and a
// logger that stamps request_id on every entry.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithUserID stores the authenticated user's ID and returns both the new
// context and a logger that stamps user_id on every entry.
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	enriched := logger.With(zap.String("user_id", userID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID returns the request ID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID returns the user ID stored in ctx, or "".
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// spanContext returns the active span's context, valid only when a sampled
// or recording span is present.
func spanContext(ctx context.Context) (trace.SpanContext, bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return sc, sc.IsValid()
}

// GetTraceID returns the active trace ID, or "" when no span is recording.
// Log entries carrying this field can be joined against the trace backend.
func GetTraceID(ctx context.Context) string {
	if sc, ok := spanContext(ctx); ok {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the active span ID, or "" when no span is recording.
func GetSpanID(ctx context.Context) string {
	if sc, ok := spanContext(ctx); ok {
		return sc.SpanID().String()
	}
	return ""
}

// WithTraceContext stamps trace_id and span_id onto the logger when a span
// is active. Without a span the logger is returned unchanged, so it is safe
// to call unconditionally.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc, ok := spanContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
