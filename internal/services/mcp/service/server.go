package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/theater.planner/internal/platform/timeouts"
	"github.com/louisbranch/theater.planner/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "theater-planner-mcp"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"

	// TransportStdio serves MCP over stdin/stdout.
	TransportStdio = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP = "http"

	defaultHTTPAddr = "localhost:8096"
)

// Deps groups the planner services exposed as tools.
type Deps struct {
	Planner domain.LineupPlanner
	Seasons domain.SeasonReader
}

// Config selects the transport.
type Config struct {
	Transport string
	HTTPAddr  string
}

// Server hosts the planner MCP tools.
type Server struct {
	mcpServer *mcp.Server
}

// New registers every planner tool on a fresh MCP server.
func New(deps Deps) (*Server, error) {
	if deps.Planner == nil {
		return nil, errors.New("lineup planner is required")
	}
	if deps.Seasons == nil {
		return nil, errors.New("season service is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := registerLineupTools(mcpServer, deps.Planner); err != nil {
		return nil, fmt.Errorf("register lineup tools: %w", err)
	}
	if err := registerSeasonTools(mcpServer, deps.Seasons); err != nil {
		return nil, fmt.Errorf("register season tools: %w", err)
	}
	return &Server{mcpServer: mcpServer}, nil
}

// Run serves on the configured transport until ctx ends.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	switch strings.TrimSpace(cfg.Transport) {
	case "", TransportStdio:
		return s.Serve(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return s.ServeHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve runs one MCP session over transport and blocks until it ends.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// ServeHTTP exposes the server over streamable HTTP at addr until ctx ends.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if strings.TrimSpace(addr) == "" {
		addr = defaultHTTPAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("mcp http listening at %s", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP http: %w", err)
	}
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}
