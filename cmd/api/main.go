package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/bootstrap"
	"github.com/pageza/diet-insights/backend/internal/logger"
	"github.com/pageza/diet-insights/backend/internal/server"
	"github.com/pageza/diet-insights/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := bootstrap.OpenSource(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open dataset source", zap.Error(err))
	}
	defer src.Close()

	// Warm the snapshot so a broken dataset shows up at startup
	if snap, err := src.Load(ctx); err != nil {
		zlog.Warn("dataset not loaded at startup", zap.String("source", src.Name()), zap.Error(err))
	} else {
		zlog.Info("dataset ready",
			zap.String("source", src.Name()),
			zap.String("version", snap.Version),
			zap.Int("recipes", len(snap.Recipes)))
	}

	redisClient := bootstrap.OpenRedis(ctx, cfg, zlog)
	if redisClient != nil {
		defer redisClient.Close()
	}

	svc := service.NewInsightsService(src.Source, bootstrap.NewCache(redisClient, cfg), cfg.Analytics, zlog)
	srv := server.New(cfg, svc, bootstrap.NewRateLimiter(redisClient, cfg, zlog), zlog)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("shutdown signal received")
	}

	// Gracefully shutdown the server
	if err := srv.Shutdown(context.Background()); err != nil {
		zlog.Fatal("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
