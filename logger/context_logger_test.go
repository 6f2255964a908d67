package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return logEntry
}

func TestContextLogger_WithContext_AllKeys(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithOperation(ctx, "highlight")
	ctx = WithRecordID(ctx, "rec-456")
	ctx = WithProcessingStage(ctx, "render")

	cl.WithContext(ctx).Info("test message")
	logEntry := decodeEntry(t, &buf)

	tests := []struct {
		key      string
		expected string
	}{
		{"request_id", "req-123"},
		{"operation", "highlight"},
		{"record_id", "rec-456"},
		{"processing_stage", "render"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := logEntry[tt.key]
			if !ok {
				t.Errorf("expected key %q to be present in log", tt.key)
				return
			}
			if got != tt.expected {
				t.Errorf("expected %q to be %q, got %q", tt.key, tt.expected, got)
			}
		})
	}
}

func TestContextLogger_WithContext_PartialKeys(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRecordID(context.Background(), "record-only")
	cl.WithContext(ctx).Info("test message")
	logEntry := decodeEntry(t, &buf)

	if got, ok := logEntry["record_id"]; !ok || got != "record-only" {
		t.Errorf("expected record_id to be 'record-only', got %v", got)
	}

	for _, key := range []string{"request_id", "operation", "processing_stage"} {
		if _, ok := logEntry[key]; ok {
			t.Errorf("expected key %q to not be present in log", key)
		}
	}
}

func TestContextLogger_LogDuration(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-timing")
	cl.LogDuration(ctx, "search", 1500)
	logEntry := decodeEntry(t, &buf)

	if got := logEntry["operation"]; got != "search" {
		t.Errorf("expected operation to be 'search', got %v", got)
	}
	if got := logEntry["duration_ms"]; got != float64(1500) {
		t.Errorf("expected duration_ms to be 1500, got %v", got)
	}
	if got := logEntry["request_id"]; got != "req-timing" {
		t.Errorf("expected request_id to be 'req-timing', got %v", got)
	}
}

func TestContextLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRecordID(context.Background(), "rec-error")
	cl.LogError(ctx, "index_failed", &testError{msg: "test error"})
	logEntry := decodeEntry(t, &buf)

	if got := logEntry["operation"]; got != "index_failed" {
		t.Errorf("expected operation to be 'index_failed', got %v", got)
	}
	if got := logEntry["error"]; got != "test error" {
		t.Errorf("expected error to be 'test error', got %v", got)
	}
	if got := logEntry["level"]; got != "ERROR" {
		t.Errorf("expected level ERROR, got %v", got)
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestRequestIDFrom(t *testing.T) {
	if got := RequestIDFrom(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}

	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestIDFrom(ctx); got != "abc" {
		t.Errorf("expected 'abc', got %q", got)
	}
}
