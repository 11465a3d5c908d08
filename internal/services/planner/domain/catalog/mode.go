package catalog

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
)

// Mode is an admin-authored game mode with its chamber list.
type Mode struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	MinCharacters int      `json:"min_characters"`
	MaxCharacters int      `json:"max_characters"`
	Chambers      []string `json:"chambers"`
}

// Validate checks name and character bounds.
func (m Mode) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.New(apperrors.CodeNameEmpty, "mode name is required")
	}
	if m.MinCharacters < 0 || m.MaxCharacters < m.MinCharacters {
		return apperrors.New(apperrors.CodeModeInvalidCharacters,
			fmt.Sprintf("invalid character bounds %d..%d", m.MinCharacters, m.MaxCharacters))
	}
	return nil
}

// Chambers is a mode's chamber list resolved against acts and laid out in
// two columns plus the Arcana row.
type Chambers struct {
	Left   []Act
	Right  []Act
	Arcana []Act
}

// ResolveChambers resolves m's chamber ids against acts. Ids with no matching
// act are skipped. Non-Arcana chambers are sorted by ordinal and split so the
// left column holds the larger half.
func ResolveChambers(m Mode, acts []Act) Chambers {
	byID := make(map[string]Act, len(acts))
	for _, act := range acts {
		byID[act.ID] = act
	}

	var main, arcana []Act
	for _, id := range m.Chambers {
		act, ok := byID[id]
		if !ok {
			continue
		}
		if act.Type == FightArcana {
			arcana = append(arcana, act)
		} else {
			main = append(main, act)
		}
	}
	sort.SliceStable(main, func(i, j int) bool { return main[i].Ordinal < main[j].Ordinal })
	sort.SliceStable(arcana, func(i, j int) bool { return arcana[i].Ordinal < arcana[j].Ordinal })

	mid := (len(main) + 1) / 2
	return Chambers{Left: main[:mid], Right: main[mid:], Arcana: arcana}
}

// All returns every resolved chamber in display order.
func (c Chambers) All() []Act {
	out := make([]Act, 0, len(c.Left)+len(c.Right)+len(c.Arcana))
	out = append(out, c.Left...)
	out = append(out, c.Right...)
	return append(out, c.Arcana...)
}
