package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/service"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage/sqlite"
)

func newCatalog(t *testing.T) *service.Catalog {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return service.NewCatalog(store)
}

func TestLoadFileFixture(t *testing.T) {
	t.Parallel()

	file, err := LoadFile(filepath.Join("fixtures", "catalog.yaml"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if len(file.Characters) == 0 || len(file.Acts) == 0 || len(file.Modes) == 0 || len(file.Regions) == 0 {
		t.Fatalf("fixture = %+v, want characters, acts, modes and regions", file)
	}
	if !file.Acts[1].Options.TimerEnable {
		t.Fatalf("act %q options = %+v, want timer enabled", file.Acts[1].Key, file.Acts[1].Options)
	}
}

func TestParseRejectsBadReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "acts:\n  - key: a\n    ordinal: 1\n    type: Boss_fight\n    color: red\n", "color"},
		{"missing key", "acts:\n  - ordinal: 1\n    type: Boss_fight\n", "key is required"},
		{"duplicate key", "acts:\n  - {key: a, ordinal: 1, type: Boss_fight}\n  - {key: a, ordinal: 2, type: Boss_fight}\n", "duplicate key"},
		{"bad type", "acts:\n  - {key: a, ordinal: 1, type: Duel}\n", "unknown fight type"},
		{"unknown chamber", "modes:\n  - {name: M, max_characters: 2, chambers: [zz]}\n", "unknown chamber"},
		{"region without id", "regions:\n  - {name: R}\n", "id is required"},
		{"duplicate task", "regions:\n  - {id: r, name: R, tasks: [{id: t, name: Task}, {id: t, name: Again}]}\n", "duplicate id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("parse err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestParseEmptyFile(t *testing.T) {
	t.Parallel()

	file, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if len(file.Acts) != 0 {
		t.Fatalf("acts = %d, want 0", len(file.Acts))
	}
}

func TestRunIsRepeatable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := newCatalog(t)
	cfg := Config{File: filepath.Join("fixtures", "catalog.yaml")}

	first, err := Run(ctx, cat, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.ActsCreated != 8 || first.ActsExisting != 0 || first.ModesCreated != 2 {
		t.Fatalf("first run = %s", first)
	}

	second, err := Run(ctx, cat, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.ActsCreated != 0 || second.ActsExisting != 8 || second.ModesUpdated != 2 {
		t.Fatalf("second run = %s", second)
	}
	if first.Regions != 2 || first.Tasks != 3 {
		t.Fatalf("first run = %s, want 2 regions and 3 tasks", first)
	}

	regions, err := cat.ListRegions(ctx)
	if err != nil || len(regions) != 2 {
		t.Fatalf("regions = %+v, %v", regions, err)
	}
	chimes, err := cat.GetTask(ctx, "mondstadt-wind-chimes")
	if err != nil {
		t.Fatalf("get seeded task: %v", err)
	}
	if !chimes.Series || len(chimes.Parts) != 3 || chimes.RegionID != "mondstadt" {
		t.Fatalf("seeded task = %+v", chimes)
	}
	tasks, err := cat.ListTasks(ctx, "")
	if err != nil || len(tasks) != 3 {
		t.Fatalf("tasks after two runs = %d, %v", len(tasks), err)
	}

	acts, err := cat.ListActs(ctx)
	if err != nil {
		t.Fatalf("list acts: %v", err)
	}
	if len(acts) != 8 {
		t.Fatalf("acts = %d, want 8", len(acts))
	}
	modes, err := cat.ListModes(ctx)
	if err != nil {
		t.Fatalf("list modes: %v", err)
	}
	if len(modes) != 2 {
		t.Fatalf("modes = %d, want 2", len(modes))
	}
	for _, mode := range modes {
		for _, chamber := range mode.Chambers {
			if _, err := cat.GetAct(ctx, chamber); err != nil {
				t.Fatalf("mode %s chamber %q: %v", mode.Name, chamber, err)
			}
		}
	}
}

func TestApplyKeepsOrdinalRules(t *testing.T) {
	t.Parallel()

	file, err := Parse(strings.NewReader("acts:\n  - {key: v, ordinal: 3, type: Variation_fight}\n  - {key: b, ordinal: 3, type: Boss_fight}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Apply(context.Background(), newCatalog(t), file, false)
	if !apperrors.IsCode(err, apperrors.CodeActDuplicateOrdinal) {
		t.Fatalf("apply err = %v, want %s", err, apperrors.CodeActDuplicateOrdinal)
	}
}

func TestApplyRejectsUnknownElement(t *testing.T) {
	t.Parallel()

	file := File{Characters: []CharacterSeed{{ID: "x", Name: "X", Element: "plasma"}}}
	if _, err := Apply(context.Background(), newCatalog(t), file, false); err == nil {
		t.Fatal("expected unknown element error")
	}
}
