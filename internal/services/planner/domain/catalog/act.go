package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
)

// FightType is the kind of encounter an act represents.
type FightType string

const (
	// FightVariation is the standard multi-variation encounter.
	FightVariation FightType = "Variation_fight"
	// FightBoss is the special single-boss encounter.
	FightBoss FightType = "Boss_fight"
	// FightArcana is the bonus encounter with its own ordinal range.
	FightArcana FightType = "Arcana_fight"
)

const (
	minOrdinal       = 1
	maxOrdinal       = 14
	maxArcanaOrdinal = 2
)

// fightOrder is the fixed group order used by SortActs.
var fightOrder = map[FightType]int{
	FightVariation: 0,
	FightBoss:      1,
	FightArcana:    2,
}

// ParseFightType validates a wire fight type.
func ParseFightType(value string) (FightType, error) {
	t := FightType(strings.TrimSpace(value))
	if !t.Valid() {
		return "", apperrors.WithMetadata(apperrors.CodeActInvalidFightType,
			fmt.Sprintf("unknown fight type %q", value),
			map[string]string{"type": value})
	}
	return t, nil
}

// Valid reports whether t is one of the three known fight types.
func (t FightType) Valid() bool {
	_, ok := fightOrder[t]
	return ok
}

// OrdinalRange returns the inclusive ordinal bounds for t.
func (t FightType) OrdinalRange() (int, int) {
	if t == FightArcana {
		return minOrdinal, maxArcanaOrdinal
	}
	return minOrdinal, maxOrdinal
}

// SharesOrdinals reports whether acts of t and other compete for the same ordinals.
func (t FightType) SharesOrdinals(other FightType) bool {
	return (t == FightArcana) == (other == FightArcana)
}

func (t FightType) conflictLabel() string {
	if t == FightArcana {
		return "another Arcana act"
	}
	return "a Boss or Variation act"
}

func (t FightType) rangeLabel() string {
	if t == FightArcana {
		return "Arcana"
	}
	return "Act"
}

// Options are the capability flags authored on a catalog act.
type Options struct {
	Amount      bool `json:"amount,omitempty"`
	TimerEnable bool `json:"timerEnable,omitempty"`
	Defeat      bool `json:"defeat,omitempty"`
	SpecialType bool `json:"special_type,omitempty"`
}

// EnemyOptions are the per-selection values captured when enemies are attached.
type EnemyOptions struct {
	Amount      string `json:"amount,omitempty"`
	Timer       string `json:"timer,omitempty"`
	Defeat      string `json:"defeat,omitempty"`
	SpecialType bool   `json:"special_type,omitempty"`
}

// Quantity parses Amount; ok is false when Amount is empty or not a number.
func (o EnemyOptions) Quantity() (int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(o.Amount))
	if err != nil {
		return 0, false
	}
	return value, true
}

// Act is one encounter definition in the catalog.
type Act struct {
	ID                string             `json:"id"`
	Ordinal           int                `json:"name"`
	Type              FightType          `json:"type"`
	Options           Options            `json:"options"`
	EnemyOptions      *EnemyOptions      `json:"enemy_options,omitempty"`
	EnemySelection    []EnemyInstance    `json:"enemy_selection"`
	VariationSettings *VariationSettings `json:"variation_fight_settings,omitempty"`
	Variations        []Variation        `json:"variations"`
	CreatedAt         time.Time          `json:"-"`
	UpdatedAt         time.Time          `json:"-"`
}

// HasSeasonData reports whether any season-authored field is populated.
func (a Act) HasSeasonData() bool {
	return a.EnemyOptions != nil || len(a.EnemySelection) > 0 ||
		a.VariationSettings != nil || len(a.Variations) > 0
}

// WithoutSeasonData returns a copy with the four season-authored fields cleared.
func (a Act) WithoutSeasonData() Act {
	a.EnemyOptions = nil
	a.EnemySelection = []EnemyInstance{}
	a.VariationSettings = nil
	a.Variations = []Variation{}
	return a
}

// Clone returns a deep copy so callers can mutate nested waves safely.
func (a Act) Clone() Act {
	out := a
	if a.EnemyOptions != nil {
		opts := *a.EnemyOptions
		out.EnemyOptions = &opts
	}
	if a.VariationSettings != nil {
		settings := *a.VariationSettings
		out.VariationSettings = &settings
	}
	out.EnemySelection = CloneEnemies(a.EnemySelection)
	if a.Variations != nil {
		out.Variations = make([]Variation, len(a.Variations))
		for i, variation := range a.Variations {
			out.Variations[i] = variation.Clone()
		}
	}
	return out
}

// Normalize fills nil slices so the record serializes with empty lists.
func (a Act) Normalize() Act {
	if a.EnemySelection == nil {
		a.EnemySelection = []EnemyInstance{}
	}
	if a.Variations == nil {
		a.Variations = []Variation{}
	}
	return a
}

// ValidateOrdinal checks the ordinal range for the act's fight type.
func ValidateOrdinal(t FightType, ordinal int) error {
	if !t.Valid() {
		return apperrors.WithMetadata(apperrors.CodeActInvalidFightType,
			fmt.Sprintf("unknown fight type %q", t),
			map[string]string{"type": string(t)})
	}
	lo, hi := t.OrdinalRange()
	if ordinal < lo || ordinal > hi {
		return apperrors.WithMetadata(apperrors.CodeActOrdinalOutOfRange,
			fmt.Sprintf("%s ordinal %d outside %d..%d", t, ordinal, lo, hi),
			map[string]string{
				"kind": t.rangeLabel(),
				"min":  strconv.Itoa(lo),
				"max":  strconv.Itoa(hi),
			})
	}
	return nil
}

// CheckOrdinalConflict rejects candidate when another act in existing already
// holds its ordinal within the same uniqueness group. Acts with the same ID are
// ignored so updates do not conflict with themselves.
func CheckOrdinalConflict(existing []Act, candidate Act) error {
	for _, act := range existing {
		if act.ID == candidate.ID && candidate.ID != "" {
			continue
		}
		if act.Ordinal != candidate.Ordinal || !act.Type.SharesOrdinals(candidate.Type) {
			continue
		}
		return DuplicateOrdinal(candidate, act.ID)
	}
	return nil
}

// DuplicateOrdinal is the rejection for candidate colliding with the act
// conflictID. conflictID may be empty when the holder is unknown.
func DuplicateOrdinal(candidate Act, conflictID string) error {
	message := fmt.Sprintf("act %d already exists", candidate.Ordinal)
	if conflictID != "" {
		message += " (" + conflictID + ")"
	}
	return apperrors.WithMetadata(apperrors.CodeActDuplicateOrdinal, message,
		map[string]string{
			"ordinal":  strconv.Itoa(candidate.Ordinal),
			"conflict": candidate.Type.conflictLabel(),
		})
}

// SortActs orders acts by fight group (Variation, Boss, Arcana) then ordinal.
// Acts with unknown types are dropped.
func SortActs(acts []Act) []Act {
	out := make([]Act, 0, len(acts))
	for _, act := range acts {
		if act.Type.Valid() {
			out = append(out, act)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := fightOrder[out[i].Type], fightOrder[out[j].Type]
		if gi != gj {
			return gi < gj
		}
		return out[i].Ordinal < out[j].Ordinal
	})
	return out
}

// ActsByType returns acts of t in ordinal order.
func ActsByType(acts []Act, t FightType) []Act {
	var out []Act
	for _, act := range acts {
		if act.Type == t {
			out = append(out, act)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}
