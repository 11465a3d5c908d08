package lineup

import (
	"testing"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
)

func viewFixture() ViewInput {
	acts := []catalog.Act{
		{ID: "a1", Ordinal: 1, Type: catalog.FightVariation, Variations: []catalog.Variation{
			{Topology: catalog.TopologyTwo, Waves: []catalog.Wave{
				{Index: 0, Enemies: []catalog.EnemyInstance{{Enemy: catalog.Enemy{ID: "first"}}, {Enemy: catalog.Enemy{ID: "second"}}}},
				{Index: 1, Enemies: []catalog.EnemyInstance{{Enemy: catalog.Enemy{ID: "later"}}}},
			}},
			{Topology: catalog.TopologyOne, Waves: []catalog.Wave{{Index: 0}}},
			{Topology: catalog.TopologyOne, Waves: []catalog.Wave{{Index: 0, Enemies: []catalog.EnemyInstance{{Enemy: catalog.Enemy{ID: "third"}}}}}},
		}},
		{ID: "a2", Ordinal: 2, Type: catalog.FightBoss, EnemySelection: []catalog.EnemyInstance{{Enemy: catalog.Enemy{ID: "boss"}}}},
		{ID: "a3", Ordinal: 3, Type: catalog.FightVariation},
		{ID: "arc", Ordinal: 1, Type: catalog.FightArcana},
	}
	owned := []catalog.Character{
		{ID: "c1", Name: "Ayla", Element: "pyro", Rarity: 4},
		{ID: "c2", Name: "Bren", Element: "hydro", Rarity: 5},
		{ID: "c3", Name: "Cato", Element: "pyro", Rarity: 5},
		{ID: "open", Name: "Opal", Element: "pyro", Rarity: 5},
	}
	s := season.Compose(acts, &season.Document{
		ElementTypes:      []string{"pyro"},
		OpeningCharacters: []catalog.Character{{ID: "open", Name: "Opal", Element: "pyro", Rarity: 5}},
	})

	e := NewEngine(nil, 2)
	e.SetActiveMode("m")
	e.UpdateSelectedRoster([]string{"c1", "c2", "c3"})
	e.Place("a1", "c1")
	e.Place("a2", "c1")
	e.Place("a1", "open")
	e.Place("a2", "ghost")
	e.SelectEnemyVariant("a1", 1)
	config, _ := e.Active()

	return ViewInput{
		Config:    config,
		Season:    s,
		Mode:      catalog.Mode{ID: "m", Name: "Hard", Chambers: []string{"a1", "a2", "a3", "arc"}},
		Owned:     owned,
		All:       owned,
		MaxEnergy: 2,
	}
}

func TestBuildViewEnergyAndRoster(t *testing.T) {
	t.Parallel()

	view := BuildView(viewFixture())
	if view.ModeName != "Hard" || view.MaxEnergy != 2 {
		t.Fatalf("view header = %+v", view)
	}
	if len(view.Roster) != 3 {
		t.Fatalf("roster = %+v", view.Roster)
	}
	if view.Roster[0].ID != "c2" || view.Roster[1].ID != "c3" || view.Roster[2].ID != "c1" {
		t.Fatalf("roster order = %s %s %s", view.Roster[0].ID, view.Roster[1].ID, view.Roster[2].ID)
	}
	if view.Roster[2].Energy != 0 {
		t.Fatalf("c1 energy = %d, want 0", view.Roster[2].Energy)
	}
	if len(view.Opening) != 1 || view.Opening[0].Energy != 1 {
		t.Fatalf("opening = %+v", view.Opening)
	}
}

func TestBuildViewChambers(t *testing.T) {
	t.Parallel()

	view := BuildView(viewFixture())
	if len(view.Left) != 2 || len(view.Right) != 1 || len(view.Arcana) != 1 {
		t.Fatalf("layout = %d/%d/%d", len(view.Left), len(view.Right), len(view.Arcana))
	}

	a1 := view.Left[0]
	if len(a1.Enemies) != 2 || a1.Enemies[0].ID != "first" || a1.Enemies[1].ID != "third" {
		t.Fatalf("a1 enemies = %+v", a1.Enemies)
	}
	if a1.ActiveEnemy != 1 {
		t.Fatalf("a1 active enemy = %d, want 1", a1.ActiveEnemy)
	}
	if len(a1.Placed) != 2 {
		t.Fatalf("a1 placed = %+v", a1.Placed)
	}

	a2 := view.Left[1]
	if len(a2.Enemies) != 1 || a2.Enemies[0].ID != "boss" {
		t.Fatalf("a2 enemies = %+v", a2.Enemies)
	}
	if len(a2.Placed) != 1 || a2.Placed[0].ID != "c1" {
		t.Fatalf("unknown characters should be skipped: %+v", a2.Placed)
	}
}

func TestAvailableCharactersFiltersOpeningAndElements(t *testing.T) {
	t.Parallel()

	view := BuildView(viewFixture())
	if len(view.Available) != 2 {
		t.Fatalf("available = %+v", view.Available)
	}
	for _, c := range view.Available {
		if c.ID == "open" || c.Element != "pyro" {
			t.Fatalf("unexpected available character %+v", c)
		}
	}

	noLimit := season.Compose(nil, nil)
	if got := AvailableCharacters(viewFixture().Owned, noLimit); len(got) != 4 {
		t.Fatalf("without limits available = %d, want 4", len(got))
	}
}
