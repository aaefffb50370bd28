package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pageaudit/internal/api"
	"pageaudit/internal/audit"
	"pageaudit/internal/config"
	"pageaudit/internal/fetcher"
	"pageaudit/internal/llm"
	"pageaudit/internal/monitoring"
	"pageaudit/internal/storage"

	"go.uber.org/zap"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// Initialize Storage Layer
	pgStore, err := storage.NewPostgresStore(cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := pgStore.InitSchema(context.Background()); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}
	redisStore := storage.NewRedisStore(cfg.RedisAddr)

	// Initialize Monitoring and Collaborator Clients
	metrics := monitoring.NewMetrics()
	scrapeClient := fetcher.NewClient(cfg.ScrapeAPIURL, cfg.ScrapeAPIKey,
		time.Duration(cfg.ScrapeTimeout)*time.Second, logger)
	scoreClient := llm.NewClient(cfg.AIGatewayURL, cfg.AIAPIKey, cfg.AIModel,
		time.Duration(cfg.ScoreTimeout)*time.Second, logger)

	// Initialize Audit Pipeline
	pipeline := audit.NewPipeline(cfg, scrapeClient, scoreClient, pgStore, redisStore, metrics, logger)
	pipeline.Start()

	// Initialize API Server
	server := api.NewServer(cfg, pipeline, pgStore, redisStore, metrics, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline.Stop()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	pgStore.Close()
	logger.Info("server exiting")
}
