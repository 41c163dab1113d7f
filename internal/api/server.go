package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server wraps an http.Server around the handler's router
type Server struct {
	addr       string
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer creates a server for h. Does not start listening; call Start.
func NewServer(addr string, h *Handler) *Server {
	if addr == "" {
		addr = ":8080"
	}
	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           h.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: h.log,
	}
}

// Start listens and serves in a goroutine. Non-blocking.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("HTTP listen: %w", err)
	}

	// Update addr with actual address (important for ephemeral ports)
	s.addr = listener.Addr().String()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()

	s.log.Info("listening", zap.String("addr", s.addr))
	return nil
}

// Stop shuts down the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// Addr returns the HTTP listen address
func (s *Server) Addr() string {
	return s.addr
}
