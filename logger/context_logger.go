package logger

import (
	"context"
	"log/slog"
	"time"
)

// ContextKey is the type for context keys used in logging
type ContextKey string

const (
	RequestIDKey       ContextKey = "request_id"
	OperationKey       ContextKey = "operation"
	RecordIDKey        ContextKey = "record_id"
	ProcessingStageKey ContextKey = "processing_stage"
)

var contextKeys = []ContextKey{RequestIDKey, OperationKey, RecordIDKey, ProcessingStageKey}

// GlobalContext is the global ContextLogger instance
var GlobalContext = NewContextLogger(Logger)

// ContextLogger wraps a slog.Logger to add context-aware logging
type ContextLogger struct {
	logger *slog.Logger
}

func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying every known key found in ctx.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	args := make([]any, 0, len(contextKeys)*2)
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			args = append(args, string(key), v)
		}
	}
	if len(args) == 0 {
		return cl.logger
	}
	return cl.logger.With(args...)
}

// LogDuration logs an operation completion with duration in milliseconds
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, durationMs int64) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", durationMs,
	)
}

// LogError logs an operation failure with error details
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err,
	)
}

// LogDurationTime is a convenience function that takes time.Duration
func (cl *ContextLogger) LogDurationTime(ctx context.Context, operation string, duration time.Duration) {
	cl.LogDuration(ctx, operation, duration.Milliseconds())
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestIDFrom returns the request ID stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

func WithRecordID(ctx context.Context, recordID string) context.Context {
	return context.WithValue(ctx, RecordIDKey, recordID)
}

func WithProcessingStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ProcessingStageKey, stage)
}
