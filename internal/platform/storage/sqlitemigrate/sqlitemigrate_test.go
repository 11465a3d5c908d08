package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsCreatesTablesOnce(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()
	migrations := fstest.MapFS{
		"001_acts.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE acts(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE acts;")},
	}

	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(ctx, db, migrations, ""); err != nil {
			t.Fatalf("apply run %d: %v", i, err)
		}
	}

	applied, err := Applied(ctx, db)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if len(applied) != 1 || applied[0] != "001_acts.sql" {
		t.Fatalf("applied = %v", applied)
	}
	if !tableExists(t, db, "acts") {
		t.Fatal("expected acts table")
	}
}

func TestApplyMigrationsLeavesFailedFileUnrecorded(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()
	bad := fstest.MapFS{
		"001_modes.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREAT TABLE modes(id TEXT);")},
	}
	if err := ApplyMigrations(ctx, db, bad, ""); err == nil {
		t.Fatal("expected syntax error")
	}
	applied, err := Applied(ctx, db)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("applied = %v, want none", applied)
	}

	fixed := fstest.MapFS{
		"001_modes.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE modes(id TEXT PRIMARY KEY);")},
	}
	if err := ApplyMigrations(ctx, db, fixed, ""); err != nil {
		t.Fatalf("apply fixed: %v", err)
	}
	if !tableExists(t, db, "modes") {
		t.Fatal("expected modes table")
	}
}

func TestLoadUsesRootInMigrationName(t *testing.T) {
	migrations := fstest.MapFS{
		"migrations/002_b.sql": &fstest.MapFile{Data: []byte("CREATE TABLE b(id TEXT);")},
		"migrations/001_a.sql": &fstest.MapFile{Data: []byte("CREATE TABLE a(id TEXT);")},
		"migrations/README.md": &fstest.MapFile{Data: []byte("ignored")},
	}
	loaded, err := Load(migrations, "migrations")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d migrations, want 2", len(loaded))
	}
	if loaded[0].Name != "migrations/001_a.sql" || loaded[1].Name != "migrations/002_b.sql" {
		t.Fatalf("names = %q, %q", loaded[0].Name, loaded[1].Name)
	}
}

func TestUpSection(t *testing.T) {
	content := "-- header\n-- +migrate Up\nCREATE TABLE x(id INT);\n-- +migrate Down\nDROP TABLE x;\n"
	if got := UpSection(content); got != "\nCREATE TABLE x(id INT);\n" {
		t.Fatalf("up = %q", got)
	}
	if got := UpSection("SELECT 1;"); got != "SELECT 1;" {
		t.Fatalf("up without marker = %q", got)
	}
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table: %v", err)
	}
	return found == name
}
