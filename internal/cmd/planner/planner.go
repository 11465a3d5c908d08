// Package planner parses planner service flags and launches the HTTP server.
package planner

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/theater.planner/internal/platform/cmd"
	server "github.com/louisbranch/theater.planner/internal/services/planner/app"
)

// Config holds planner command configuration.
type Config struct {
	HTTPAddr          string        `env:"HTTP_ADDR"           envDefault:":8095"`
	DBPath            string        `env:"DB_PATH"             envDefault:"data/planner.db"`
	LocalApp          string        `env:"LOCAL_APP"           envDefault:"theater_planner"`
	MaxEnergy         int           `env:"MAX_ENERGY"          envDefault:"2"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	AdminTokenSecret  string        `env:"ADMIN_TOKEN_SECRET"`
	AdminTokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL"     envDefault:"12h"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Catalog SQLite database path")
	fs.StringVar(&cfg.LocalApp, "local-app", cfg.LocalApp, "Local data directory name for lineup and profile state (empty keeps it in memory)")
	fs.IntVar(&cfg.MaxEnergy, "max-energy", cfg.MaxEnergy, "Chambers one character may occupy per mode")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ServerConfig maps cfg onto the app server configuration.
func (cfg Config) ServerConfig() server.Config {
	return server.Config{
		HTTPAddr: cfg.HTTPAddr,
		Runtime: server.RuntimeConfig{
			DBPath:    cfg.DBPath,
			LocalApp:  cfg.LocalApp,
			MaxEnergy: cfg.MaxEnergy,
		},
		Admin: server.AdminConfig{
			PasswordHash: cfg.AdminPasswordHash,
			TokenSecret:  cfg.AdminTokenSecret,
			TokenTTL:     cfg.AdminTokenTTL,
		},
	}
}

// Run starts the planner HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePlanner, func(ctx context.Context) error {
		return server.Run(ctx, cfg.ServerConfig())
	})
}
