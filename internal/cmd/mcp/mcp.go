// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"

	entrypoint "github.com/louisbranch/theater.planner/internal/platform/cmd"
	mcpservice "github.com/louisbranch/theater.planner/internal/services/mcp/service"
	server "github.com/louisbranch/theater.planner/internal/services/planner/app"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath    string `env:"DB_PATH"       envDefault:"data/planner.db"`
	LocalApp  string `env:"LOCAL_APP"     envDefault:"theater_planner"`
	MaxEnergy int    `env:"MAX_ENERGY"    envDefault:"2"`
	HTTPAddr  string `env:"MCP_HTTP_ADDR" envDefault:"localhost:8096"`
	Transport string `env:"MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Catalog SQLite database path")
	fs.StringVar(&cfg.LocalApp, "local-app", cfg.LocalApp, "Local data directory name for lineup state (empty keeps it in memory)")
	fs.IntVar(&cfg.MaxEnergy, "max-energy", cfg.MaxEnergy, "Chambers one character may occupy per mode")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens planner state and serves the MCP tools.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		runtime, err := server.OpenRuntime(server.RuntimeConfig{
			DBPath:    cfg.DBPath,
			LocalApp:  cfg.LocalApp,
			MaxEnergy: cfg.MaxEnergy,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := runtime.Close(); err != nil {
				log.Printf("close planner store: %v", err)
			}
		}()

		mcpServer, err := mcpservice.New(mcpservice.Deps{
			Planner: runtime.Planner,
			Seasons: runtime.Seasons,
		})
		if err != nil {
			return err
		}
		return mcpServer.Run(ctx, mcpservice.Config{Transport: cfg.Transport, HTTPAddr: cfg.HTTPAddr})
	})
}
