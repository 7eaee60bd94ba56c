package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/config"
)

// Server runs the HTTP API
type Server struct {
	router   *Router
	srv      *http.Server
	listener net.Listener
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, router *Router, logger *zap.Logger) *Server {
	return &Server{
		router: router,
		srv: &http.Server{
			Addr:         cfg.ListenAddress,
			Handler:      router.Engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Start begins serving in the background
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	s.listener = l

	s.logger.Info("HTTP server starting", zap.String("address", l.Addr().String()))

	go func() {
		if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting requests and waits for background work
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.router.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Background work still running at shutdown")
	}
	return err
}
