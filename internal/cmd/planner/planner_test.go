package planner

import (
	"bytes"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8095" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "data/planner.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.MaxEnergy != 2 {
		t.Fatalf("expected default max energy 2, got %d", cfg.MaxEnergy)
	}
	if cfg.AdminTokenTTL != 12*time.Hour {
		t.Fatalf("expected default token ttl 12h, got %s", cfg.AdminTokenTTL)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("THEATER_PLANNER_DB_PATH", "/tmp/env.db")
	t.Setenv("THEATER_PLANNER_ADMIN_TOKEN_SECRET", "env-secret")
	t.Setenv("THEATER_PLANNER_MAX_ENERGY", "3")

	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9000", "-local-app", ""})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "/tmp/env.db" || cfg.MaxEnergy != 3 {
		t.Fatalf("expected env values, got %+v", cfg)
	}

	serverCfg := cfg.ServerConfig()
	if serverCfg.Runtime.LocalApp != "" {
		t.Fatalf("expected in-memory local state, got %q", serverCfg.Runtime.LocalApp)
	}
	if serverCfg.Admin.TokenSecret != "env-secret" {
		t.Fatalf("expected admin secret from env, got %q", serverCfg.Admin.TokenSecret)
	}
}

func TestParseConfigBadArgs(t *testing.T) {
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	if _, err := ParseConfig(fs, []string{"-invalid"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
