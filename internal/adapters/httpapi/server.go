package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server runs the HTTP API as a gateway
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a new API server listening on addr
func NewServer(addr string, h *Handlers, logger *zap.Logger, allowedOrigins []string) *Server {
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      SetupRoutes(h, logger, allowedOrigins),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Name returns the gateway name
func (s *Server) Name() string {
	return "http"
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.logger.Info("HTTP API starting", zap.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop drains in-flight requests for up to 10 seconds
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
