package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	connectv1 "search-highlighter/connect/v1"
	"search-highlighter/connect/v1/highlight"
	"search-highlighter/config"
	"search-highlighter/middleware"
	"search-highlighter/rest"
	"search-highlighter/usecase"
	"search-highlighter/utils"
)

// newHTTPServer creates the REST HTTP server.
func newHTTPServer(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	highlightUsecase *usecase.HighlightRecordsUsecase,
	searchUsecase *usecase.SearchRecordsUsecase,
	guard *utils.MarkupGuard,
) *http.Server {
	restHandler := rest.NewHandler(highlightUsecase, searchUsecase, guard, cfg.HTTP.MaxBodyBytes)

	mws := []echo.MiddlewareFunc{
		echomw.Recover(),
		middleware.RequestID(),
		middleware.SecurityHeaders(),
	}
	if cfg.OTel.Enabled {
		mws = append(mws, middleware.OTelMiddleware())
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		mws = append(mws, limiter.Middleware())
	}

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h2c.NewHandler(rest.NewRouter(restHandler, log, mws...), &http2.Server{}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
}

// newConnectServer creates the Connect-RPC server.
func newConnectServer(
	cfg *config.Config,
	highlightUsecase *usecase.HighlightRecordsUsecase,
	searchUsecase *usecase.SearchRecordsUsecase,
	guard *utils.MarkupGuard,
) *http.Server {
	handler := highlight.NewHandler(highlightUsecase, searchUsecase, guard)

	return &http.Server{
		Addr:              cfg.HTTP.ConnectAddr,
		Handler:           connectv1.CreateConnectServer(handler),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
}
