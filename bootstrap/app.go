package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"search-highlighter/config"
	"search-highlighter/consumer"
	"search-highlighter/driver"
	"search-highlighter/gateway"
	"search-highlighter/highlight"
	"search-highlighter/logger"
	"search-highlighter/usecase"
	"search-highlighter/utils"
	appOtel "search-highlighter/utils/otel"
)

// App holds all components of the search-highlighter service.
type App struct {
	httpServer    *http.Server
	connectServer *http.Server
	dbDriver      *driver.DatabaseDriver
	redisConsumer *consumer.Consumer
	otelShutdown  appOtel.ShutdownFunc
}

// Run initializes all components and starts the service.
// It blocks until ctx is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	// ── Load config ──
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("Failed to load config", "err", err)
		return err
	}

	// ── OpenTelemetry ──
	otelShutdown, err := appOtel.InitProvider(ctx, cfg.OTel)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		cfg.OTel.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// ── Logger ──
	logger.Init(cfg.LogLevel, cfg.OTel.Enabled)
	logger.Logger.Info("Starting search-highlighter",
		"service", cfg.OTel.ServiceName,
		"otel_enabled", cfg.OTel.Enabled,
	)

	var metrics *appOtel.Metrics
	if cfg.OTel.Enabled {
		metrics, err = appOtel.NewMetrics()
		if err != nil {
			logger.Logger.Error("Failed to create metrics, continuing without", "err", err)
			metrics = nil
		}
	}

	// ── Drivers (infrastructure layer) ──
	dbDriver, err := initDatabaseDriver(ctx, cfg.Database)
	if err != nil {
		logger.Logger.Error("Failed to initialize database driver", "err", err)
		return err
	}

	msClient, err := initMeilisearchClient(ctx, cfg.Meilisearch)
	if err != nil {
		logger.Logger.Error("Failed to initialize Meilisearch", "err", err)
		dbDriver.Close()
		return err
	}
	searchDriver := driver.NewMeilisearchDriver(msClient, cfg.Meilisearch.Index, cfg.Meilisearch.Timeout)

	// ── Gateways (anti-corruption layer) ──
	recordRepo := gateway.NewRecordRepositoryGateway(dbDriver)
	searchEngine := gateway.NewSearchEngineGateway(searchDriver)

	if err := searchEngine.EnsureIndex(ctx); err != nil {
		logger.Logger.Error("Failed to ensure search index", "err", err)
		dbDriver.Close()
		return err
	}

	// ── Use cases (application layer) ──
	highlighter := highlight.New(
		highlight.WithMarker(highlight.Marker{Tag: cfg.Highlight.MarkerTag, Class: cfg.Highlight.MarkerClass}),
		highlight.WithSnippetLength(cfg.Highlight.SnippetLength),
	)
	marker := highlighter.Marker()
	guard := utils.NewMarkupGuard(marker.Tag, marker.Class)

	highlightUsecase := usecase.NewHighlightRecordsUsecase(highlighter, cfg.Highlight.Workers, metrics)
	searchUsecase := usecase.NewSearchRecordsUsecase(searchEngine, highlightUsecase, utils.NewQuerySanitizer(utils.DefaultSecurityConfig()), metrics)
	indexUsecase := usecase.NewIndexRecordsUsecase(recordRepo, searchEngine)

	// ── Redis Streams Consumer ──
	var redisConsumer *consumer.Consumer
	if cfg.Consumer.Enabled {
		eventHandler := consumer.NewIndexEventHandler(indexUsecase, logger.Logger, metrics)
		redisConsumer, err = consumer.NewConsumer(cfg.Consumer, eventHandler, logger.Logger)
		if err != nil {
			logger.Logger.Error("Failed to create Redis Streams consumer", "err", err)
		} else if err := redisConsumer.Start(ctx); err != nil {
			logger.Logger.Error("Failed to start Redis Streams consumer", "err", err)
			redisConsumer = nil
		} else {
			logger.Logger.Info("Redis Streams consumer started",
				"stream", cfg.Consumer.StreamKey,
				"group", cfg.Consumer.GroupName,
			)
		}
	} else {
		logger.Logger.Info("Redis Streams consumer disabled")
	}

	// ── Batch indexer (polling fallback) ──
	go runIndexLoop(ctx, indexUsecase, cfg.Indexer, metrics)

	// ── Servers ──
	app := &App{
		httpServer:    newHTTPServer(ctx, cfg, logger.Logger, highlightUsecase, searchUsecase, guard),
		connectServer: newConnectServer(cfg, highlightUsecase, searchUsecase, guard),
		dbDriver:      dbDriver,
		redisConsumer: redisConsumer,
		otelShutdown:  otelShutdown,
	}

	go serve("http", app.httpServer)
	go serve("connect-rpc", app.connectServer)

	// ── Wait for shutdown signal ──
	<-ctx.Done()
	app.shutdown()
	return nil
}

func serve(name string, srv *http.Server) {
	logger.Logger.Info(name+" listen", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Logger.Error(name, "err", err)
	}
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown error", "err", err)
	}
	if err := a.connectServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("connect-rpc shutdown error", "err", err)
	}
	if a.redisConsumer != nil {
		a.redisConsumer.Stop()
	}
	if a.dbDriver != nil {
		a.dbDriver.Close()
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := a.otelShutdown(otelCtx); err != nil {
		fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
	}
}
