package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"ledgerorigin/internal/services"
)

// Server represents the HTTP API server
// Provides endpoints for Prometheus metrics, health checks and origin lookups
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	origins    services.OriginResolver
	port       int
}

// NewServer creates a new API server instance
func NewServer(port int, origins services.OriginResolver) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute, // deep histories take many pages
			IdleTimeout:  60 * time.Second,
		},
		mux:     mux,
		origins: origins,
		port:    port,
	}

	// Register all HTTP routes
	s.registerRoutes()

	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.handleMetrics())

	// Origin endpoints
	s.mux.HandleFunc("GET /accounts/{address}/origin", s.handleGetOrigin)
	s.mux.HandleFunc("GET /origins", s.handleListOrigins)
}

// Handler exposes the routes for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start binds the listener and serves in a goroutine.
// Returns once the port is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		slog.Info("API server starting",
			"port", s.port,
			"backend", s.origins.Backend(),
			"endpoints", []string{"/", "/health", "/metrics", "/accounts/{address}/origin", "/origins"},
		)

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the HTTP server
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("API server shutting down...")
	return s.httpServer.Shutdown(ctx)
}
