package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/harry-torres/gbarber-backend/internal/app"
	"github.com/harry-torres/gbarber-backend/internal/config"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := app.NewPostgres(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	dispatcher, err := app.NewDispatcher(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create mail dispatcher", zap.Error(err))
	}

	logger.Info("Starting job worker", zap.String("transport", dispatcher.Name()))

	if err := app.NewConsumer(pool, cfg, dispatcher, logger).Run(ctx); err != nil {
		logger.Fatal("Job worker stopped with error", zap.Error(err))
	}
}
