// Package server provides the HTTP API for Kensaku.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/engine"
	"github.com/hyperjump/kensaku/pkg/metrics"
)

// Server is the HTTP server for the Kensaku API.
type Server struct {
	engine  *engine.Engine
	config  *config.ServerConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(eng *engine.Engine, cfg *config.ServerConfig, logger *zap.Logger, m *metrics.Metrics) *Server {
	return &Server{
		engine:  eng,
		config:  cfg,
		logger:  logger,
		metrics: m,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/index", s.handleIndex)
	r.Post("/api/v1/metrics", s.handleEvaluate)
	r.Get("/api/v1/status", s.handleStatus)
	r.Delete("/api/v1/collections/{name}", s.handleClearCollection)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
