// Package server provides the HTTP API for Prashna.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/cascade"
	"github.com/campusqa/prashna/internal/config"
	"github.com/campusqa/prashna/internal/querylog"
)

// CorpusInfo reports the loaded corpus sizes for the status endpoint.
type CorpusInfo interface {
	CuratedSize() int
	DocumentSize() int
	CuratedCategories() map[string]int
}

// Server is the HTTP server for the Prashna API.
type Server struct {
	engine *cascade.Engine
	stats  querylog.StatsProvider
	corpus CorpusInfo
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies. stats may be nil
// when no SQLite sink is configured.
func NewServer(
	engine *cascade.Engine,
	stats querylog.StatsProvider,
	corpus CorpusInfo,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine: engine,
		stats:  stats,
		corpus: corpus,
		config: cfg,
		logger: logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/chat", s.handleChat)
	r.Get("/api/v1/stats", s.handleStats)
	r.Get("/health", s.handleHealth)

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
