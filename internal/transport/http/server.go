// Package http serves the status surface: liveness, counters, live provider
// health, history, and prometheus metrics.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/config"
	"github.com/linkmux/linkmux/internal/service"
)

// Server represents the HTTP status server.
type Server struct {
	server *http.Server
	port   string
	logger *zap.Logger
}

// NewServer creates a new status server.
func NewServer(dispatcher service.Dispatcher, cfg *config.Config, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	handler := NewHandler(dispatcher, cfg, logger)

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	r.Get("/api/status", handler.Status)
	r.Get("/api/health", handler.Health)
	r.Get("/api/stats", handler.Stats)
	r.Get("/api/history", handler.History)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		server: server,
		port:   cfg.ServerPort,
		logger: logger,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("status server starting", zap.String("port", s.port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("status server shutting down")
	return s.server.Shutdown(ctx)
}
