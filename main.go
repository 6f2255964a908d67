package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"search-highlighter/bootstrap"
	"search-highlighter/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx); err != nil {
		logger.Logger.Error("search-highlighter exited", "err", err)
		stop()
		os.Exit(1)
	}
}
