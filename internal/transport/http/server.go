package http

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"challenges-service/internal/config"

	"github.com/gorilla/mux"
)

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	httpServer *http.Server
	cfg        *config.HTTPConfig
}

// NewServer creates a new HTTP server with all routes registered
func NewServer(handler *Handler, cfg *config.HTTPConfig) *Server {
	router := mux.NewRouter()
	handler.Register(router)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		cfg: cfg,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() {
	log.Println("Gracefully stopping HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("Error during HTTP server shutdown: %v", err)
	}

	log.Println("HTTP server stopped")
}
