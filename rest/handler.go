package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"search-highlighter/domain"
	"search-highlighter/logger"
	"search-highlighter/usecase"
	"search-highlighter/utils"

	"github.com/labstack/echo/v4"
)

// DefaultMaxBodyBytes caps POST /v1/highlight bodies.
const DefaultMaxBodyBytes = 1 << 20

// Handler serves the highlight and search endpoints.
type Handler struct {
	highlightUsecase *usecase.HighlightRecordsUsecase
	searchUsecase    *usecase.SearchRecordsUsecase
	guard            *utils.MarkupGuard
	maxBodyBytes     int64
}

func NewHandler(highlightUsecase *usecase.HighlightRecordsUsecase, searchUsecase *usecase.SearchRecordsUsecase, guard *utils.MarkupGuard, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		highlightUsecase: highlightUsecase,
		searchUsecase:    searchUsecase,
		guard:            guard,
		maxBodyBytes:     maxBodyBytes,
	}
}

// HighlightRequest keeps term and records untyped so shape errors surface as
// invalid_input instead of a decode failure.
type HighlightRequest struct {
	Term    any `json:"term"`
	Records any `json:"records"`
}

type HighlightResponse struct {
	Term    string                     `json:"term"`
	Results []domain.HighlightedResult `json:"results"`
}

type SearchResponse struct {
	Query   string                     `json:"query"`
	Results []domain.HighlightedResult `json:"results"`
	Total   int64                      `json:"estimated_total_hits"`
	Offset  int64                      `json:"offset"`
	Limit   int64                      `json:"limit"`
}

// RegisterRoutes mounts the API on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	v1 := e.Group("/v1")
	v1.POST("/highlight", h.Highlight)
	v1.GET("/search", h.Search)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Highlight(c echo.Context) error {
	ctx := logger.WithOperation(c.Request().Context(), "highlight")

	body := http.MaxBytesReader(c.Response(), c.Request().Body, h.maxBodyBytes)
	var req HighlightRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errRequestTooLarge
		}
		return errInvalidRequest
	}

	result, err := h.highlightUsecase.ExecuteRaw(ctx, req.Term, req.Records)
	if err != nil {
		return err
	}

	logger.GlobalContext.WithContext(ctx).Info("highlight ok", "records", len(result.Results))

	return c.JSON(http.StatusOK, HighlightResponse{
		Term:    result.Term,
		Results: h.guardAll(result.Results),
	})
}

func (h *Handler) Search(c echo.Context) error {
	ctx := logger.WithOperation(c.Request().Context(), "search")

	query := c.QueryParam("q")
	offset, err := parseInt64Param(c, "offset")
	if err != nil {
		return err
	}
	limit, err := parseInt64Param(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.searchUsecase.Execute(ctx, query, offset, limit)
	if err != nil {
		return err
	}

	logger.GlobalContext.WithContext(ctx).Info("search ok", "count", len(result.Results), "estimated_total", result.Total)

	return c.JSON(http.StatusOK, SearchResponse{
		Query:   result.Query,
		Results: h.guardAll(result.Results),
		Total:   result.Total,
		Offset:  result.Offset,
		Limit:   result.Limit,
	})
}

func (h *Handler) guardAll(results []domain.HighlightedResult) []domain.HighlightedResult {
	if h.guard == nil {
		return results
	}
	for i := range results {
		results[i].Title = h.guard.Guard(results[i].Title)
		results[i].Text = h.guard.Guard(results[i].Text)
		results[i].Snippet = h.guard.Guard(results[i].Snippet)
		results[i].Metadata = h.guard.Guard(results[i].Metadata)
	}
	return results
}

func parseInt64Param(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.InvalidInputError{Field: name, Reason: "must be an integer"}
	}
	return n, nil
}
