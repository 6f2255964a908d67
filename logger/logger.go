package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

const instrumentationName = "search-highlighter"

// Logger is the process-wide logger. It is usable before Init.
var Logger = slog.Default()

// Init sets up JSON logging to stdout at level, fanned out to the OTel log
// bridge when enableOTel is true.
func Init(level string, enableOTel bool) {
	Logger = slog.New(newHandler(os.Stdout, parseLevel(level), enableOTel))
	GlobalContext = NewContextLogger(Logger)

	Logger.Info("Logger initialized", "otel_enabled", enableOTel, "level", parseLevel(level).String())
}

func newHandler(w io.Writer, level slog.Level, enableOTel bool) slog.Handler {
	jsonHandler := NewTraceContextHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	if !enableOTel {
		return jsonHandler
	}
	return NewMultiHandler(jsonHandler, NewOTelHandler())
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// NewOTelHandler bridges slog records to the global OTel logger provider.
func NewOTelHandler() slog.Handler {
	return otelslog.NewHandler(
		instrumentationName,
		otelslog.WithLoggerProvider(global.GetLoggerProvider()),
	)
}

// MultiHandler sends logs to multiple handlers
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			_ = handler.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: newHandlers}
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: newHandlers}
}
