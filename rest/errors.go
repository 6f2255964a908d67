package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"search-highlighter/domain"
	"search-highlighter/logger"
	"search-highlighter/usecase"
	"search-highlighter/utils"

	"github.com/labstack/echo/v4"
)

var (
	errInvalidRequest  = echo.NewHTTPError(http.StatusBadRequest, "invalid_request")
	errRequestTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request_too_large")
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ErrorHandler maps errors to status codes and stable error codes. Internal
// details are logged, never returned.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		l := logger.NewContextLogger(log).WithContext(ctx)

		status, resp := classify(err)
		if status >= 500 {
			l.Error("request failed", "status", status, "error", err)
		} else {
			l.Warn("request rejected", "status", status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			l.Error("failed to send error response", "error", err)
		}
	}
}

func classify(err error) (int, ErrorResponse) {
	var invalid *domain.InvalidInputError
	var security *utils.SecurityError
	var engine *domain.SearchEngineError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_input", Message: invalid.Error()}
	case errors.Is(err, usecase.ErrEmptyQuery):
		return http.StatusBadRequest, ErrorResponse{Error: "empty_query"}
	case errors.As(err, &security):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_query", Message: security.Message}
	case errors.As(err, &engine):
		return http.StatusBadGateway, ErrorResponse{Error: "search_unavailable"}
	case errors.As(err, &httpErr):
		return httpErr.Code, ErrorResponse{Error: httpErrorCode(httpErr)}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal"}
	}
}

// httpErrorCode keeps codes set by this package and turns Echo's stock
// status-text messages into snake_case.
func httpErrorCode(e *echo.HTTPError) string {
	if msg, ok := e.Message.(string); ok && msg != "" && msg != http.StatusText(e.Code) {
		return msg
	}
	return strings.ToLower(strings.ReplaceAll(http.StatusText(e.Code), " ", "_"))
}

// NewRouter builds the Echo instance with the error handler and mws.
func NewRouter(h *Handler, log *slog.Logger, mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(log)
	// Client-supplied forwarding headers must not pick the rate limit bucket.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Use(mws...)
	h.RegisterRoutes(e)
	return e
}
