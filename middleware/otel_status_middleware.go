package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "search-highlighter"

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// OTelStatusHandler starts a span per request and marks it as an error on
// 5xx responses. 4xx responses are client errors and leave the status unset.
func OTelStatusHandler(handler http.Handler, operationName string) http.Handler {
	tracer := otel.Tracer(tracerName)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), operationName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(semconv.URLPath(r.URL.Path)),
		)
		defer span.End()

		rec := newStatusRecorder(w)
		handler.ServeHTTP(rec, r.WithContext(ctx))

		setStatus(span, rec.status, nil)
	})
}

// OTelMiddleware is the Echo form of OTelStatusHandler. The span is named
// after the matched route.
func OTelMiddleware() echo.MiddlewareFunc {
	tracer := otel.Tracer(tracerName)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, span := tracer.Start(req.Context(), req.Method+" "+c.Path(),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(semconv.HTTPRoute(c.Path())),
			)
			defer span.End()
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				// Let Echo write the error so the final status is known.
				c.Error(err)
			}

			setStatus(span, c.Response().Status, err)
			return nil
		}
	}
}

func setStatus(span trace.Span, status int, err error) {
	span.SetAttributes(semconv.HTTPResponseStatusCode(status))
	if status >= 500 {
		span.SetStatus(codes.Error, http.StatusText(status))
		if err != nil {
			span.RecordError(err)
		}
	}
}
