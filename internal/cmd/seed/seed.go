// Package seed parses seeder flags and loads a catalog file into the planner
// database.
package seed

import (
	"context"
	"flag"
	"log"

	entrypoint "github.com/louisbranch/theater.planner/internal/platform/cmd"
	"github.com/louisbranch/theater.planner/internal/seed"
	server "github.com/louisbranch/theater.planner/internal/services/planner/app"
)

// Config holds seed command configuration.
type Config struct {
	DBPath  string `env:"DB_PATH"   envDefault:"data/planner.db"`
	File    string `env:"SEED_FILE"`
	Verbose bool   `env:"SEED_VERBOSE"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.File == "" {
		cfg.File = seed.DefaultFile
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Catalog SQLite database path")
	fs.StringVar(&cfg.File, "file", cfg.File, "YAML seed catalog to load")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Log every created act and mode")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run applies the seed file to the catalog database.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		runtime, err := server.OpenRuntime(server.RuntimeConfig{DBPath: cfg.DBPath})
		if err != nil {
			return err
		}
		defer func() {
			if err := runtime.Close(); err != nil {
				log.Printf("close planner store: %v", err)
			}
		}()

		result, err := seed.Run(ctx, runtime.Catalog, seed.Config{File: cfg.File, Verbose: cfg.Verbose})
		if err != nil {
			return err
		}
		log.Printf("seeded %s", result)
		return nil
	})
}
