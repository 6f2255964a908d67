// Package v1 provides Connect-RPC server setup for search-highlighter.
package v1

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"search-highlighter/connect/v1/highlight"
	"search-highlighter/logger"
	"search-highlighter/middleware"
)

// CreateConnectServer creates the Connect-RPC server with HTTP/2 support.
func CreateConnectServer(handler *highlight.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","service":"connect-rpc"}`))
	})

	path, serviceHandler := highlight.NewServiceHandler(handler)
	mux.Handle(path, middleware.OTelStatusHandler(serviceHandler, "connect.HighlightService"))
	logger.Logger.Info("Registered Connect-RPC HighlightService", "path", path)

	// h2c for internal callers without TLS
	return h2c.NewHandler(mux, &http2.Server{})
}
