package catalog

import (
	"encoding/json"
	"testing"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
)

func TestValidateOrdinal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     FightType
		ordinal int
		code    apperrors.Code
	}{
		{name: "variation low", typ: FightVariation, ordinal: 1},
		{name: "boss high", typ: FightBoss, ordinal: 14},
		{name: "boss too high", typ: FightBoss, ordinal: 15, code: apperrors.CodeActOrdinalOutOfRange},
		{name: "variation zero", typ: FightVariation, ordinal: 0, code: apperrors.CodeActOrdinalOutOfRange},
		{name: "arcana two", typ: FightArcana, ordinal: 2},
		{name: "arcana three", typ: FightArcana, ordinal: 3, code: apperrors.CodeActOrdinalOutOfRange},
		{name: "unknown type", typ: FightType("Duel"), ordinal: 1, code: apperrors.CodeActInvalidFightType},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateOrdinal(tc.typ, tc.ordinal)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("validate: %v", err)
				}
				return
			}
			if !apperrors.IsCode(err, tc.code) {
				t.Fatalf("error = %v, want code %s", err, tc.code)
			}
		})
	}
}

func TestCheckOrdinalConflictGroups(t *testing.T) {
	t.Parallel()

	existing := []Act{
		{ID: "v5", Ordinal: 5, Type: FightVariation},
		{ID: "a1", Ordinal: 1, Type: FightArcana},
	}

	if err := CheckOrdinalConflict(existing, Act{Ordinal: 5, Type: FightBoss}); !apperrors.IsCode(err, apperrors.CodeActDuplicateOrdinal) {
		t.Fatalf("boss 5 error = %v, want duplicate ordinal", err)
	}
	if err := CheckOrdinalConflict(existing, Act{Ordinal: 5, Type: FightArcana}); err != nil {
		t.Fatalf("arcana 5 should not conflict with variation 5: %v", err)
	}
	if err := CheckOrdinalConflict(existing, Act{Ordinal: 1, Type: FightVariation}); err != nil {
		t.Fatalf("variation 1 should not conflict with arcana 1: %v", err)
	}
	if err := CheckOrdinalConflict(existing, Act{Ordinal: 1, Type: FightArcana}); !apperrors.IsCode(err, apperrors.CodeActDuplicateOrdinal) {
		t.Fatalf("arcana 1 error = %v, want duplicate ordinal", err)
	}
	if err := CheckOrdinalConflict(existing, Act{ID: "v5", Ordinal: 5, Type: FightBoss}); err != nil {
		t.Fatalf("act should not conflict with itself: %v", err)
	}
}

func TestSortActsGroupsThenOrdinal(t *testing.T) {
	t.Parallel()

	acts := []Act{
		{ID: "arc2", Ordinal: 2, Type: FightArcana},
		{ID: "boss3", Ordinal: 3, Type: FightBoss},
		{ID: "var4", Ordinal: 4, Type: FightVariation},
		{ID: "bad", Ordinal: 1, Type: FightType("Other")},
		{ID: "var1", Ordinal: 1, Type: FightVariation},
		{ID: "arc1", Ordinal: 1, Type: FightArcana},
		{ID: "boss2", Ordinal: 2, Type: FightBoss},
	}
	sorted := SortActs(acts)
	want := []string{"var1", "var4", "boss2", "boss3", "arc1", "arc2"}
	if len(sorted) != len(want) {
		t.Fatalf("sorted len = %d, want %d", len(sorted), len(want))
	}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Fatalf("sorted[%d] = %q, want %q", i, sorted[i].ID, id)
		}
	}
}

func TestActCloneIsDeep(t *testing.T) {
	t.Parallel()

	quantity := 3
	act := Act{
		ID:             "x",
		EnemySelection: []EnemyInstance{{Enemy: Enemy{ID: "e1"}, Quantity: &quantity}},
		Variations: []Variation{{
			Topology: TopologyOne,
			Waves:    []Wave{{Index: 0, Enemies: []EnemyInstance{{Enemy: Enemy{ID: "e2"}}}}},
		}},
	}
	clone := act.Clone()
	*clone.EnemySelection[0].Quantity = 9
	clone.Variations[0].Waves[0].Enemies[0].Name = "changed"

	if *act.EnemySelection[0].Quantity != 3 {
		t.Fatal("clone shares quantity pointer")
	}
	if act.Variations[0].Waves[0].Enemies[0].Name != "" {
		t.Fatal("clone shares wave enemies")
	}
}

func TestActJSONUsesRecordFieldNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Act{ID: "x", Ordinal: 5, Type: FightBoss}.Normalize())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["name"] != float64(5) || fields["type"] != "Boss_fight" {
		t.Fatalf("fields = %v", fields)
	}
	if _, ok := fields["enemy_selection"].([]any); !ok {
		t.Fatalf("enemy_selection = %#v, want empty list", fields["enemy_selection"])
	}
	if _, ok := fields["enemy_options"]; ok {
		t.Fatal("enemy_options should be omitted when unset")
	}
}

func TestNewEnemyInstanceAppliesOptions(t *testing.T) {
	t.Parallel()

	base := Enemy{ID: "slime", Name: "Slime"}
	instance := NewEnemyInstance(base, EnemyOptions{Amount: " 4 ", SpecialType: true})
	if instance.Quantity == nil || *instance.Quantity != 4 {
		t.Fatalf("quantity = %v, want 4", instance.Quantity)
	}
	if !instance.SpecialMark {
		t.Fatal("expected special mark")
	}
	if plain := NewEnemyInstance(base, EnemyOptions{}); plain.Quantity != nil || plain.SpecialMark {
		t.Fatalf("plain instance = %+v", plain)
	}
}
