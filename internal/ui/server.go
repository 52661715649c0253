package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
)

// Server serves the read API over stored repositories.
type Server struct {
	Logger   log.Logger
	Config   *cfg.Config
	Database *db.Database
	mu       sync.Mutex
	server   *http.Server
	port     int
}

func NewServer(logger log.Logger, config *cfg.Config, database *db.Database, port int) (*Server, error) {
	if port <= 0 {
		port = config.Ui.Port
	}
	return &Server{
		Logger:   logger,
		Config:   config,
		Database: database,
		port:     port,
	}, nil
}

// Start blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	handler, err := NewHandler(s.Logger, s.Config, s.Database)
	if err != nil {
		return fmt.Errorf("failed to create UI handler: %w", err)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.Logger.Info(context.Background(), "Starting UI server on %s", ln.Addr())
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server != nil {
		s.Logger.Info(ctx, "Shutting down UI server")
		return server.Shutdown(ctx)
	}
	return nil
}
