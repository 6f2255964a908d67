package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"search-highlighter/domain"
	"search-highlighter/highlight"
	"search-highlighter/middleware"
	"search-highlighter/usecase"
	"search-highlighter/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeSearchEngine struct {
	hits     []domain.SearchableRecord
	total    int64
	err      error
	gotQuery string
}

func (f *fakeSearchEngine) IndexDocuments(ctx context.Context, docs []domain.SearchDocument) error {
	return nil
}

func (f *fakeSearchEngine) DeleteDocuments(ctx context.Context, ids []string) error {
	return nil
}

func (f *fakeSearchEngine) Search(ctx context.Context, query string, offset, limit int64) ([]domain.SearchableRecord, int64, error) {
	f.gotQuery = query
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.hits, f.total, nil
}

func (f *fakeSearchEngine) EnsureIndex(ctx context.Context) error {
	return nil
}

func newTestRouter(engine *fakeSearchEngine) *echo.Echo {
	h := highlight.New()
	hl := usecase.NewHighlightRecordsUsecase(h, 2, nil)
	search := usecase.NewSearchRecordsUsecase(engine, hl, nil, nil)
	handler := NewHandler(hl, search, utils.NewMarkupGuard("mark", "highlight"), 1024)
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewRouter(handler, log)
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandler_Highlight(t *testing.T) {
	e := newTestRouter(&fakeSearchEngine{})

	body := `{"term":"fox","records":[{"id":"1","title":"The Fox","text":"a quick <b>fox</b>"},"skip"]}`
	rec := doRequest(e, http.MethodPost, "/v1/highlight", body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HighlightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fox", resp.Term)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, `The <mark class="highlight">Fox</mark>`, string(first.Title))
	assert.Equal(t, `a quick &lt;b&gt;<mark class="highlight">fox</mark>&lt;/b&gt;`, string(first.Text))
	assert.Equal(t, 2, first.MatchCount)

	assert.Equal(t, domain.HighlightedResult{}, resp.Results[1])
}

func TestHandler_HighlightErrors(t *testing.T) {
	e := newTestRouter(&fakeSearchEngine{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"term":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "records not an array",
			body:       `{"term":"x","records":{"text":"x"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_input",
		},
		{
			name:       "term not a string",
			body:       `{"term":5,"records":[]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_input",
		},
		{
			name:       "body too large",
			body:       `{"term":"` + strings.Repeat("a", 2048) + `","records":[]}`,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "request_too_large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/v1/highlight", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
		})
	}
}

func TestHandler_Search(t *testing.T) {
	engine := &fakeSearchEngine{
		hits: []domain.SearchableRecord{
			{ID: "r1", Title: domain.PresentField("Go tips"), Text: domain.PresentField("learn go today")},
		},
		total: 7,
	}
	e := newTestRouter(engine)

	rec := doRequest(e, http.MethodGet, "/v1/search?q=go&limit=5&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "go", resp.Query)
	assert.Equal(t, int64(7), resp.Total)
	assert.Equal(t, int64(1), resp.Offset)
	assert.Equal(t, int64(5), resp.Limit)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, `<mark class="highlight">Go</mark> tips`, string(resp.Results[0].Title))
	assert.Equal(t, "go", engine.gotQuery)
}

func TestHandler_SearchErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		engineErr  error
		wantStatus int
		wantCode   string
	}{
		{"empty query", "/v1/search?q=", nil, http.StatusBadRequest, "empty_query"},
		{"bad limit", "/v1/search?q=go&limit=ten", nil, http.StatusBadRequest, "invalid_input"},
		{"limit too large", "/v1/search?q=go&limit=101", nil, http.StatusBadRequest, "invalid_input"},
		{"negative offset", "/v1/search?q=go&offset=-1", nil, http.StatusBadRequest, "invalid_input"},
		{"control character", "/v1/search?q=go%00", nil, http.StatusBadRequest, "invalid_query"},
		{"invalid utf-8", "/v1/search?q=%FF", nil, http.StatusBadRequest, "invalid_query"},
		{
			"engine failure",
			"/v1/search?q=go",
			&domain.SearchEngineError{Op: "Search", Err: "connection refused"},
			http.StatusBadGateway,
			"search_unavailable",
		},
		{"unexpected failure", "/v1/search?q=go", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestRouter(&fakeSearchEngine{err: tt.engineErr})
			rec := doRequest(e, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.NotContains(t, resp.Message, "connection refused")
			assert.NotContains(t, resp.Message, "boom")
		})
	}
}

func TestHandler_HealthAndNotFound(t *testing.T) {
	e := newTestRouter(&fakeSearchEngine{})

	rec := doRequest(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error)
}

func TestHTTPErrorCode(t *testing.T) {
	assert.Equal(t, "rate_limited", httpErrorCode(echo.NewHTTPError(http.StatusTooManyRequests, "rate_limited")))
	assert.Equal(t, "method_not_allowed", httpErrorCode(echo.NewHTTPError(http.StatusMethodNotAllowed)))
}

func TestNewRouter_RateLimitIgnoresForwardedFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := highlight.New()
	hl := usecase.NewHighlightRecordsUsecase(h, 2, nil)
	search := usecase.NewSearchRecordsUsecase(&fakeSearchEngine{}, hl, nil, nil)
	handler := NewHandler(hl, search, utils.NewMarkupGuard("mark", "highlight"), 1024)
	limiter := middleware.NewRateLimiter(ctx, rate.Limit(1), 1)
	e := NewRouter(handler, slog.New(slog.NewJSONHandler(io.Discard, nil)), limiter.Middleware())

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.2"))
}
