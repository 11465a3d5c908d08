package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/louisbranch/theater.planner/internal/platform/timeouts"
	"github.com/louisbranch/theater.planner/internal/services/planner/api"
)

// Config is everything the planner HTTP server needs.
type Config struct {
	HTTPAddr string
	Runtime  RuntimeConfig
	Admin    AdminConfig
}

// Server hosts the planner HTTP API and its storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	runtime    *Runtime
}

// New opens storage, builds the handler and binds cfg.HTTPAddr.
func New(cfg Config) (*Server, error) {
	admin, err := NewAdminAuthority(cfg.Admin)
	if err != nil {
		return nil, err
	}
	runtime, err := OpenRuntime(cfg.Runtime)
	if err != nil {
		return nil, err
	}
	handler, err := api.NewHandler(api.Deps{
		Catalog: runtime.Catalog,
		Seasons: runtime.Seasons,
		Planner: runtime.Planner,
		Admin:   admin,
	})
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("new handler: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler.Routes(),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		runtime: runtime,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a planner server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve handles HTTP requests until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("planner server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases planner server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.runtime != nil {
		if err := s.runtime.Close(); err != nil {
			log.Printf("close planner store: %v", err)
		}
		s.runtime = nil
	}
}
