package service

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/structure"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage/sqlite"
)

func TestLoadWithoutOverrideReturnsCatalog(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	act := mustCreateAct(t, f.catalog, 1, catalog.FightBoss)
	current, err := f.seasons.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(current.Acts) != 1 || current.Acts[0].ID != act.ID || current.HasData() {
		t.Fatalf("season = %+v", current)
	}
}

func TestAttachEnemiesToBossActPersists(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	boss := mustCreateAct(t, f.catalog, 12, catalog.FightBoss)
	enemy, err := f.catalog.SaveEnemy(ctx, catalog.Enemy{Name: "Warden", Element: "geo"})
	if err != nil {
		t.Fatalf("save enemy: %v", err)
	}

	opts := catalog.EnemyOptions{Amount: "2", Timer: "3:00", Defeat: "all"}
	if _, err := f.seasons.AttachEnemies(ctx, boss.ID, 4, 4, []string{enemy.ID}, opts); err != nil {
		t.Fatalf("attach: %v", err)
	}

	reloaded, err := f.seasons.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	act, ok := reloaded.Act(boss.ID)
	if !ok {
		t.Fatalf("boss act missing from %+v", reloaded)
	}
	if len(act.Variations) != 1 || len(act.Variations[0].Waves) != 1 {
		t.Fatalf("variations = %+v", act.Variations)
	}
	if got := act.Variations[0].Waves[0].Enemies; len(got) != 1 || got[0].ID != enemy.ID || *got[0].Quantity != 2 {
		t.Fatalf("wave enemies = %+v", got)
	}
	if act.Variations[0].Timer != "3:00" || act.EnemyOptions == nil || act.EnemyOptions.Defeat != "all" {
		t.Fatalf("act = %+v", act)
	}
	if len(act.EnemySelection) != 1 {
		t.Fatalf("enemy selection = %+v", act.EnemySelection)
	}

	stored, err := f.catalog.GetAct(ctx, boss.ID)
	if err != nil {
		t.Fatalf("get act: %v", err)
	}
	if len(stored.EnemySelection) != 1 {
		t.Fatalf("catalog mirror = %+v", stored)
	}
}

func TestAttachEnemiesUnknownEnemy(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	boss := mustCreateAct(t, f.catalog, 12, catalog.FightBoss)
	if _, err := f.seasons.AttachEnemies(context.Background(), boss.ID, 0, 0, []string{"ghost"}, catalog.EnemyOptions{}); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestVariationEditingKeepsWavePrefix(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	act := mustCreateAct(t, f.catalog, 1, catalog.FightVariation)
	enemy, err := f.catalog.SaveEnemy(ctx, catalog.Enemy{Name: "Hound"})
	if err != nil {
		t.Fatalf("save enemy: %v", err)
	}

	if _, err := f.seasons.AddVariation(ctx, act.ID, structure.Settings{Topology: catalog.TopologyThree, Timer: "5:00"}); err != nil {
		t.Fatalf("add variation: %v", err)
	}
	if _, err := f.seasons.AttachEnemies(ctx, act.ID, 0, 1, []string{enemy.ID}, catalog.EnemyOptions{}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	current, err := f.seasons.EditVariation(ctx, act.ID, 0, structure.Settings{Topology: catalog.TopologyTwo, Timer: "5:00"})
	if err != nil {
		t.Fatalf("edit variation: %v", err)
	}
	got, _ := current.Act(act.ID)
	waves := got.Variations[0].Waves
	if len(waves) != 2 || len(waves[1].Enemies) != 1 || waves[1].Enemies[0].ID != enemy.ID {
		t.Fatalf("waves = %+v", waves)
	}

	if _, err := f.seasons.AttachEnemies(ctx, act.ID, 0, 2, []string{enemy.ID}, catalog.EnemyOptions{}); !apperrors.IsCode(err, apperrors.CodeWaveNotFound) {
		t.Fatalf("attach to dropped wave error = %v", err)
	}
	if _, err := f.seasons.EditVariation(ctx, "ghost", 0, structure.Settings{Topology: catalog.TopologyOne}); !apperrors.IsCode(err, apperrors.CodeActNotFound) {
		t.Fatalf("unknown act error = %v", err)
	}
}

func TestSeasonSelectionLimits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.seasons.SetElements(ctx, []string{"pyro", "hydro", "geo", "cryo"}); !apperrors.IsCode(err, apperrors.CodeSeasonElementLimit) {
		t.Fatalf("elements error = %v", err)
	}
	if _, err := f.seasons.SetSpecialGuests(ctx, []string{"a", "b", "c", "d", "e"}); !apperrors.IsCode(err, apperrors.CodeSeasonGuestLimit) {
		t.Fatalf("guests error = %v", err)
	}
	if _, err := f.seasons.SetOpeningCharacters(ctx, []string{"ghost"}); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("opening error = %v", err)
	}

	nova := mustSaveCharacter(t, f.catalog, "nova", "Nova", "pyro", 5)
	if _, err := f.seasons.SetElements(ctx, []string{"pyro", "pyro"}); err != nil {
		t.Fatalf("set elements: %v", err)
	}
	current, err := f.seasons.SetOpeningCharacters(ctx, []string{nova.ID})
	if err != nil {
		t.Fatalf("set opening: %v", err)
	}
	if len(current.ElementTypes) != 1 || len(current.OpeningCharacters) != 1 {
		t.Fatalf("season = %+v", current)
	}
}

func TestResetClearsOverrideAndCatalogFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	boss := mustCreateAct(t, f.catalog, 3, catalog.FightBoss)
	enemy, err := f.catalog.SaveEnemy(ctx, catalog.Enemy{Name: "Warden"})
	if err != nil {
		t.Fatalf("save enemy: %v", err)
	}
	if _, err := f.seasons.AttachEnemies(ctx, boss.ID, 0, 0, []string{enemy.ID}, catalog.EnemyOptions{}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := f.seasons.SetElements(ctx, []string{"geo"}); err != nil {
		t.Fatalf("set elements: %v", err)
	}

	if err := f.seasons.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	current, err := f.seasons.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if current.HasData() {
		t.Fatalf("season after reset = %+v", current)
	}
	act, _ := current.Act(boss.ID)
	if act.HasSeasonData() {
		t.Fatalf("act after reset = %+v", act)
	}
}

type failingPatchStore struct {
	*sqlite.Store
}

func (failingPatchStore) PatchActSeasonFields(context.Context, []catalog.Act) error {
	return errors.New("catalog unavailable")
}

func TestSaveSucceedsWhenCatalogSyncFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	boss := mustCreateAct(t, f.catalog, 12, catalog.FightBoss)
	enemy, err := f.catalog.SaveEnemy(ctx, catalog.Enemy{Name: "Warden", Element: "geo"})
	if err != nil {
		t.Fatalf("save enemy: %v", err)
	}
	seasons := NewSeasons(failingPatchStore{Store: f.store}, f.catalog)

	if _, err := seasons.SetElements(ctx, []string{"pyro"}); err != nil {
		t.Fatalf("set elements: %v", err)
	}
	if _, err := seasons.AttachEnemies(ctx, boss.ID, 0, 0, []string{enemy.ID}, catalog.EnemyOptions{}); err != nil {
		t.Fatalf("attach enemies: %v", err)
	}

	doc, err := f.store.GetSeason(ctx)
	if err != nil {
		t.Fatalf("get season: %v", err)
	}
	if len(doc.ElementTypes) != 1 || doc.ElementTypes[0] != "pyro" {
		t.Fatalf("saved elements = %v", doc.ElementTypes)
	}
	reloaded, err := seasons.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if act, ok := reloaded.Act(boss.ID); !ok || len(act.EnemySelection) != 1 {
		t.Fatalf("boss act after save = %+v", act)
	}

	stored, err := f.catalog.GetAct(ctx, boss.ID)
	if err != nil {
		t.Fatalf("get act: %v", err)
	}
	if len(stored.EnemySelection) != 0 {
		t.Fatalf("catalog row was patched despite the failure: %+v", stored.EnemySelection)
	}
}
