// Package app wires planner storage, services and the HTTP lifecycle.
package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/theater.planner/internal/services/planner/adminauth"
	"github.com/louisbranch/theater.planner/internal/services/planner/service"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage/local"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage/sqlite"
)

// RuntimeConfig locates planner state.
type RuntimeConfig struct {
	// DBPath is the sqlite catalog database.
	DBPath string
	// LocalApp names the gdata directory for per-user state. Empty keeps
	// that state in memory.
	LocalApp string
	// MaxEnergy is the per-character chamber budget; zero uses the default.
	MaxEnergy int
}

// Runtime is an opened set of planner stores and services.
type Runtime struct {
	Store   *sqlite.Store
	Catalog *service.Catalog
	Seasons *service.Seasons
	Planner *service.Planner
}

// OpenRuntime opens the catalog database and local state, then builds the
// planner services on top of them.
func OpenRuntime(cfg RuntimeConfig) (*Runtime, error) {
	store, err := openPlannerStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	localStore, err := openLocalStore(cfg.LocalApp)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	catalogService := service.NewCatalog(store)
	seasons := service.NewSeasons(store, catalogService)
	planner, err := service.NewPlanner(service.PlannerDeps{
		Local:     localStore,
		Catalog:   catalogService,
		Seasons:   seasons,
		MaxEnergy: cfg.MaxEnergy,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("new planner: %w", err)
	}
	return &Runtime{
		Store:   store,
		Catalog: catalogService,
		Seasons: seasons,
		Planner: planner,
	}, nil
}

// Close releases the catalog database.
func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// AdminConfig carries the admin credentials from the environment.
type AdminConfig struct {
	PasswordHash string
	TokenSecret  string
	TokenTTL     time.Duration
}

// NewAdminAuthority returns nil when no password hash is configured, which
// leaves every admin route answering 401.
func NewAdminAuthority(cfg AdminConfig) (*adminauth.Authority, error) {
	if strings.TrimSpace(cfg.PasswordHash) == "" {
		log.Printf("admin password hash not set; admin routes disabled")
		return nil, nil
	}
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return nil, errors.New("admin token secret is required when an admin password hash is set")
	}
	authority, err := adminauth.New(adminauth.Config{
		PasswordHash: cfg.PasswordHash,
		Secret:       []byte(cfg.TokenSecret),
		TTL:          cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("admin authority: %w", err)
	}
	return authority, nil
}

func openPlannerStore(path string) (*sqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join("data", "planner.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open planner sqlite store: %w", err)
	}
	return store, nil
}

func openLocalStore(appName string) (*local.Store, error) {
	if strings.TrimSpace(appName) == "" {
		return local.New(nil), nil
	}
	store, err := local.Open(appName)
	if err != nil {
		return nil, fmt.Errorf("open planner local store: %w", err)
	}
	return store, nil
}
