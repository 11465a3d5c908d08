package filter

import (
	"reflect"
	"testing"
)

var testSchema = NewSchema(
	Field{Name: "name", Column: "name", Kind: String},
	Field{Name: "element", Column: "element", Kind: String},
	Field{Name: "rarity", Column: "rarity", Kind: Int},
)

func TestParseEmpty(t *testing.T) {
	cond, err := testSchema.Parse("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cond.Empty() {
		t.Fatalf("expected empty condition, got %+v", cond)
	}
}

func TestParseComparisons(t *testing.T) {
	tests := []struct {
		filter string
		clause string
		params []any
	}{
		{filter: `element = "Pyro"`, clause: "element = ?", params: []any{"Pyro"}},
		{filter: `rarity >= 5`, clause: "rarity >= ?", params: []any{int64(5)}},
		{
			filter: `element = "Hydro" AND rarity = 4`,
			clause: "(element = ? AND rarity = ?)",
			params: []any{"Hydro", int64(4)},
		},
		{
			filter: `element = "Hydro" OR element = "Cryo"`,
			clause: "(element = ? OR element = ?)",
			params: []any{"Hydro", "Cryo"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.filter, func(t *testing.T) {
			cond, err := testSchema.Parse(tc.filter)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if cond.Clause != tc.clause {
				t.Fatalf("clause = %q, want %q", cond.Clause, tc.clause)
			}
			if !reflect.DeepEqual(cond.Params, tc.params) {
				t.Fatalf("params = %#v, want %#v", cond.Params, tc.params)
			}
		})
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	if _, err := testSchema.Parse(`weapon = "Sword"`); err == nil {
		t.Fatal("expected unknown field error")
	}
}
