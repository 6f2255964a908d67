package bootstrap

import (
	"context"
	"fmt"
	"time"

	"search-highlighter/config"
	"search-highlighter/driver"
	"search-highlighter/logger"

	"github.com/meilisearch/meilisearch-go"
)

// initDatabaseDriver creates and returns the database driver.
func initDatabaseDriver(ctx context.Context, cfg config.DatabaseConfig) (*driver.DatabaseDriver, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	dbDriver, err := driver.NewDatabaseDriverFromURL(connectCtx, cfg.GetDatabaseURL(), cfg.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	return dbDriver, nil
}

// initMeilisearchClient initializes the Meilisearch client with retry logic.
func initMeilisearchClient(ctx context.Context, cfg config.MeilisearchConfig) (meilisearch.ServiceManager, error) {
	const maxRetries = 5
	const retryDelay = 5 * time.Second

	logger.Logger.Info("Connecting to Meilisearch", "host", cfg.Host)

	msClient := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))

	for i := range maxRetries {
		if _, healthErr := msClient.Health(); healthErr != nil {
			logger.Logger.Warn("Meilisearch not ready, retrying", "attempt", i+1, "max", maxRetries, "err", healthErr)
			if i == maxRetries-1 {
				return nil, fmt.Errorf("failed to connect to Meilisearch after %d attempts: %w", maxRetries, healthErr)
			}
			select {
			case <-time.After(retryDelay):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		logger.Logger.Info("Connected to Meilisearch successfully")
		break
	}

	return msClient, nil
}
