package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pageaudit/internal/audit"
	"pageaudit/internal/config"
	"pageaudit/internal/monitoring"
	"pageaudit/internal/storage"

	"go.uber.org/zap"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	pipeline   *audit.Pipeline
	pgStore    *storage.PostgresStore
	redisStore *storage.RedisStore
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, pl *audit.Pipeline, ps *storage.PostgresStore, rs *storage.RedisStore, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:     cfg,
		pipeline:   pl,
		pgStore:    ps,
		redisStore: rs,
		metrics:    m,
		logger:     l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
