// Package season composes the canonical act catalog with the singleton
// season override document.
package season

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
)

const (
	// MaxElements caps the season element allow-list.
	MaxElements = 3
	// MaxOpeningCharacters caps the opening character selection.
	MaxOpeningCharacters = 6
	// MaxSpecialGuests caps the special guest selection.
	MaxSpecialGuests = 4
)

// Document is the persisted season override.
type Document struct {
	ElementTypes      []string            `json:"elemental_type_limided"`
	OpeningCharacters []catalog.Character `json:"opening_characters"`
	SpecialGuests     []catalog.Character `json:"special_guests"`
	Acts              []ActOverride       `json:"acts"`
}

// ActOverride is one act entry of a Document. Every field but ID is optional:
// nil pointers and nil slices are absent and leave the catalog value in place,
// while an empty non-nil slice is present and replaces it.
type ActOverride struct {
	ID                string                     `json:"id"`
	Ordinal           *int                       `json:"name,omitempty"`
	Type              *catalog.FightType         `json:"type,omitempty"`
	Options           *catalog.Options           `json:"options,omitempty"`
	EnemyOptions      *catalog.EnemyOptions      `json:"enemy_options,omitempty"`
	EnemySelection    []catalog.EnemyInstance    `json:"enemy_selection"`
	VariationSettings *catalog.VariationSettings `json:"variation_fight_settings,omitempty"`
	Variations        []catalog.Variation        `json:"variations"`
}

// Season is the effective season: the override's selections plus every
// catalog act with its override applied.
type Season struct {
	ElementTypes      []string            `json:"elemental_type_limided"`
	OpeningCharacters []catalog.Character `json:"opening_characters"`
	SpecialGuests     []catalog.Character `json:"special_guests"`
	Acts              []catalog.Act       `json:"acts"`
}

// Compose merges acts with doc. A nil doc, or one without acts, yields the
// catalog as-is; otherwise each catalog act takes the fields its override
// carries. Overrides for acts missing from the catalog are dropped and catalog
// acts without an override pass through unchanged.
func Compose(acts []catalog.Act, doc *Document) Season {
	out := Season{
		ElementTypes:      []string{},
		OpeningCharacters: []catalog.Character{},
		SpecialGuests:     []catalog.Character{},
		Acts:              make([]catalog.Act, 0, len(acts)),
	}
	if doc != nil {
		out.ElementTypes = append(out.ElementTypes, doc.ElementTypes...)
		out.OpeningCharacters = append(out.OpeningCharacters, doc.OpeningCharacters...)
		out.SpecialGuests = append(out.SpecialGuests, doc.SpecialGuests...)
	}

	overrides := map[string]ActOverride{}
	if doc != nil {
		for _, override := range doc.Acts {
			overrides[override.ID] = override
		}
	}
	for _, act := range acts {
		override, ok := overrides[act.ID]
		if !ok {
			out.Acts = append(out.Acts, act.Clone())
			continue
		}
		out.Acts = append(out.Acts, override.apply(act))
	}
	return out
}

func (o ActOverride) apply(act catalog.Act) catalog.Act {
	out := act.Clone()
	if o.Ordinal != nil {
		out.Ordinal = *o.Ordinal
	}
	if o.Type != nil {
		out.Type = *o.Type
	}
	if o.Options != nil {
		out.Options = *o.Options
	}
	if o.EnemyOptions != nil {
		opts := *o.EnemyOptions
		out.EnemyOptions = &opts
	}
	if o.EnemySelection != nil {
		out.EnemySelection = catalog.CloneEnemies(o.EnemySelection)
	}
	if o.VariationSettings != nil {
		settings := *o.VariationSettings
		out.VariationSettings = &settings
	}
	if o.Variations != nil {
		out.Variations = make([]catalog.Variation, len(o.Variations))
		for i, variation := range o.Variations {
			out.Variations[i] = variation.Clone()
		}
	}
	return out
}

// FullOverride captures every field of act.
func FullOverride(act catalog.Act) ActOverride {
	clone := act.Clone()
	ordinal := clone.Ordinal
	fightType := clone.Type
	options := clone.Options
	return ActOverride{
		ID:                clone.ID,
		Ordinal:           &ordinal,
		Type:              &fightType,
		Options:           &options,
		EnemyOptions:      clone.EnemyOptions,
		EnemySelection:    clone.EnemySelection,
		VariationSettings: clone.VariationSettings,
		Variations:        clone.Variations,
	}
}

// SeasonOverride captures only the season-authored fields of act, so catalog
// edits to ordinal, type or options keep showing through.
func SeasonOverride(act catalog.Act) ActOverride {
	clone := act.Clone().Normalize()
	return ActOverride{
		ID:                clone.ID,
		EnemyOptions:      clone.EnemyOptions,
		EnemySelection:    clone.EnemySelection,
		VariationSettings: clone.VariationSettings,
		Variations:        clone.Variations,
	}
}

// Document converts s back to an override carrying every act field.
// Compose(acts, s.Document()) reproduces s for the same catalog.
func (s Season) Document() Document {
	doc := s.selections()
	for _, act := range s.Acts {
		doc.Acts = append(doc.Acts, FullOverride(act))
	}
	return doc
}

// SeasonDocument converts s to the override written on save: the selections
// plus the season-authored fields of every act.
func (s Season) SeasonDocument() Document {
	doc := s.selections()
	for _, act := range s.Acts {
		doc.Acts = append(doc.Acts, SeasonOverride(act))
	}
	return doc
}

func (s Season) selections() Document {
	return Document{
		ElementTypes:      append([]string{}, s.ElementTypes...),
		OpeningCharacters: append([]catalog.Character{}, s.OpeningCharacters...),
		SpecialGuests:     append([]catalog.Character{}, s.SpecialGuests...),
		Acts:              make([]ActOverride, 0, len(s.Acts)),
	}
}

// HasData reports whether anything season-specific has been authored.
func (s Season) HasData() bool {
	if len(s.ElementTypes) > 0 || len(s.OpeningCharacters) > 0 || len(s.SpecialGuests) > 0 {
		return true
	}
	for _, act := range s.Acts {
		if len(act.EnemySelection) > 0 || len(act.Variations) > 0 {
			return true
		}
	}
	return false
}

// Act returns the act with id.
func (s Season) Act(id string) (catalog.Act, bool) {
	for _, act := range s.Acts {
		if act.ID == id {
			return act, true
		}
	}
	return catalog.Act{}, false
}

// UpdateAct replaces the act with id by fn's result.
func UpdateAct(s Season, id string, fn func(catalog.Act) (catalog.Act, error)) (Season, error) {
	for i, act := range s.Acts {
		if act.ID != id {
			continue
		}
		updated, err := fn(act.Clone())
		if err != nil {
			return Season{}, err
		}
		out := s
		out.Acts = append([]catalog.Act(nil), s.Acts...)
		out.Acts[i] = updated
		return out, nil
	}
	return Season{}, apperrors.WithMetadata(apperrors.CodeActNotFound,
		fmt.Sprintf("act %s not in season", id), map[string]string{"id": id})
}

// SetElements replaces the element allow-list.
func SetElements(s Season, elements []string) (Season, error) {
	if len(elements) > MaxElements {
		return Season{}, limitError(apperrors.CodeSeasonElementLimit, "elements", MaxElements, len(elements))
	}
	seen := make(map[string]struct{}, len(elements))
	out := make([]string, 0, len(elements))
	for _, element := range elements {
		if !catalog.ValidElement(element) {
			return Season{}, apperrors.WithMetadata(apperrors.CodeInvalidRequest,
				fmt.Sprintf("unknown element %q", element),
				map[string]string{"element": element})
		}
		if _, dup := seen[element]; dup {
			continue
		}
		seen[element] = struct{}{}
		out = append(out, element)
	}
	s.ElementTypes = out
	return s, nil
}

// SetOpeningCharacters replaces the opening character selection.
func SetOpeningCharacters(s Season, characters []catalog.Character) (Season, error) {
	if len(characters) > MaxOpeningCharacters {
		return Season{}, limitError(apperrors.CodeSeasonOpeningLimit, "opening characters", MaxOpeningCharacters, len(characters))
	}
	s.OpeningCharacters = append([]catalog.Character{}, characters...)
	return s, nil
}

// SetSpecialGuests replaces the special guest selection.
func SetSpecialGuests(s Season, characters []catalog.Character) (Season, error) {
	if len(characters) > MaxSpecialGuests {
		return Season{}, limitError(apperrors.CodeSeasonGuestLimit, "special guests", MaxSpecialGuests, len(characters))
	}
	s.SpecialGuests = append([]catalog.Character{}, characters...)
	return s, nil
}

// Validate checks a document's selection limits.
func (d Document) Validate() error {
	if len(d.ElementTypes) > MaxElements {
		return limitError(apperrors.CodeSeasonElementLimit, "elements", MaxElements, len(d.ElementTypes))
	}
	if len(d.OpeningCharacters) > MaxOpeningCharacters {
		return limitError(apperrors.CodeSeasonOpeningLimit, "opening characters", MaxOpeningCharacters, len(d.OpeningCharacters))
	}
	if len(d.SpecialGuests) > MaxSpecialGuests {
		return limitError(apperrors.CodeSeasonGuestLimit, "special guests", MaxSpecialGuests, len(d.SpecialGuests))
	}
	return nil
}

func limitError(code apperrors.Code, what string, limit, got int) error {
	return apperrors.WithMetadata(code,
		fmt.Sprintf("%d %s exceeds limit %d", got, what, limit),
		map[string]string{"limit": strconv.Itoa(limit)})
}
