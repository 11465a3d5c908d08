// Package structure shapes the variation and wave trees of an act.
//
// Every function takes values and returns new values; inputs are never
// mutated, so callers can compose them against a loaded season and discard
// the result if a later step fails.
package structure

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
)

// Settings is an author's requested variation shape.
type Settings struct {
	Topology catalog.Topology `json:"wave"`
	Timer    string           `json:"timer"`
	Name     string           `json:"name,omitempty"`
	Monolith bool             `json:"monolit,omitempty"`
}

// NewVariation builds a variation with empty waves for s.
func NewVariation(s Settings) (catalog.Variation, error) {
	return ApplySettings(catalog.Variation{Waves: []catalog.Wave{}}, s)
}

// ApplySettings resizes v to s.Topology and applies name, timer and monolith.
// Timer is written before monolith, so a request carrying both ends with
// monolith set and the timer cleared.
func ApplySettings(v catalog.Variation, s Settings) (catalog.Variation, error) {
	out, err := ResizeVariation(v, s.Topology)
	if err != nil {
		return catalog.Variation{}, err
	}
	out.Name = ""
	if s.Topology == catalog.TopologyCustom {
		out.Name = s.Name
	}
	out = SetTimer(out, s.Timer)
	if s.Monolith {
		out = SetMonolith(out, true)
	} else if out.Monolith {
		out = SetMonolith(out, false)
	}
	return out, nil
}

// ResizeVariation reshapes v's waves to the count topology resolves to.
// Matching counts leave waves untouched; a smaller count drops tail waves
// with their enemies; a larger count appends empty waves.
func ResizeVariation(v catalog.Variation, topology catalog.Topology) (catalog.Variation, error) {
	target := topology.WaveCount()
	if target == 0 {
		return catalog.Variation{}, apperrors.WithMetadata(apperrors.CodeInvalidTopology,
			fmt.Sprintf("unknown topology %q", topology),
			map[string]string{"topology": string(topology)})
	}

	out := v.Clone()
	out.Topology = topology
	switch {
	case len(out.Waves) > target:
		out.Waves = out.Waves[:target]
	case len(out.Waves) < target:
		for i := len(out.Waves); i < target; i++ {
			out.Waves = append(out.Waves, catalog.Wave{Index: i, Enemies: []catalog.EnemyInstance{}})
		}
	}
	return out, nil
}

// SetTimer writes the timer. A non-empty timer clears monolith.
func SetTimer(v catalog.Variation, timer string) catalog.Variation {
	v.Timer = timer
	if timer != "" {
		v.Monolith = false
	}
	return v
}

// SetMonolith writes the monolith flag. Enabling it clears the timer.
func SetMonolith(v catalog.Variation, monolith bool) catalog.Variation {
	v.Monolith = monolith
	if monolith {
		v.Timer = ""
	}
	return v
}

// EnsureBaseline guarantees a Boss or Arcana act holds exactly one variation
// whose first wave exists, creating them lazily. Variation acts are returned
// unchanged.
func EnsureBaseline(act catalog.Act) catalog.Act {
	if act.Type == catalog.FightVariation {
		return act
	}
	out := act.Clone()
	if len(out.Variations) == 0 {
		timer := ""
		if out.EnemyOptions != nil {
			timer = out.EnemyOptions.Timer
		}
		out.Variations = []catalog.Variation{{
			Timer:    timer,
			Topology: catalog.TopologyOne,
			Waves:    []catalog.Wave{{Index: 0, Enemies: []catalog.EnemyInstance{}}},
		}}
		return out
	}
	if len(out.Variations[0].Waves) == 0 {
		out.Variations[0].Waves = []catalog.Wave{{Index: 0, Enemies: []catalog.EnemyInstance{}}}
	}
	return out
}

// AttachEnemies copies enemies into act with the given options applied.
//
// Variation acts append to the addressed wave. Boss and Arcana acts ignore the
// indexes: they get their baseline variation, append to its first wave and to
// the act's enemy selection, take the options' timer and defeat values, and
// adopt opts as the act's enemy options.
func AttachEnemies(act catalog.Act, variationIndex, waveIndex int, enemies []catalog.Enemy, opts catalog.EnemyOptions) (catalog.Act, error) {
	instances := make([]catalog.EnemyInstance, 0, len(enemies))
	for _, enemy := range enemies {
		instances = append(instances, catalog.NewEnemyInstance(enemy, opts))
	}

	if act.Type == catalog.FightVariation {
		if variationIndex < 0 || variationIndex >= len(act.Variations) {
			return catalog.Act{}, apperrors.WithMetadata(apperrors.CodeVariationNotFound,
				fmt.Sprintf("act %s has no variation %d", act.ID, variationIndex),
				map[string]string{"index": strconv.Itoa(variationIndex)})
		}
		if waveIndex < 0 || waveIndex >= len(act.Variations[variationIndex].Waves) {
			return catalog.Act{}, apperrors.WithMetadata(apperrors.CodeWaveNotFound,
				fmt.Sprintf("variation %d has no wave %d", variationIndex, waveIndex),
				map[string]string{"index": strconv.Itoa(waveIndex)})
		}
		out := act.Clone()
		wave := &out.Variations[variationIndex].Waves[waveIndex]
		wave.Enemies = append(wave.Enemies, instances...)
		return out, nil
	}

	out := EnsureBaseline(act)
	first := &out.Variations[0]
	first.Waves[0].Enemies = append(first.Waves[0].Enemies, catalog.CloneEnemies(instances)...)
	*first = SetTimer(*first, opts.Timer)
	first.Defeat = opts.Defeat
	out.EnemySelection = append(out.EnemySelection, instances...)
	adopted := opts
	out.EnemyOptions = &adopted
	return out, nil
}

// AddVariation appends a new variation to a Variation act.
func AddVariation(act catalog.Act, s Settings) (catalog.Act, error) {
	if act.Type != catalog.FightVariation {
		return catalog.Act{}, apperrors.New(apperrors.CodeVariationNotForAct,
			fmt.Sprintf("act %s is %s", act.ID, act.Type))
	}
	variation, err := NewVariation(s)
	if err != nil {
		return catalog.Act{}, err
	}
	out := act.Clone()
	out.Variations = append(out.Variations, variation)
	return out, nil
}

// EditVariation applies s to the variation at index. Boss and Arcana acts
// keep their single wave, so topologies with more waves are rejected.
func EditVariation(act catalog.Act, index int, s Settings) (catalog.Act, error) {
	if act.Type != catalog.FightVariation && s.Topology.WaveCount() > 1 {
		return catalog.Act{}, apperrors.WithMetadata(apperrors.CodeVariationNotForAct,
			fmt.Sprintf("act %s is %s and holds a single wave", act.ID, act.Type),
			map[string]string{"topology": string(s.Topology)})
	}
	if index < 0 || index >= len(act.Variations) {
		return catalog.Act{}, apperrors.WithMetadata(apperrors.CodeVariationNotFound,
			fmt.Sprintf("act %s has no variation %d", act.ID, index),
			map[string]string{"index": strconv.Itoa(index)})
	}
	edited, err := ApplySettings(act.Variations[index], s)
	if err != nil {
		return catalog.Act{}, err
	}
	out := act.Clone()
	out.Variations[index] = edited
	return out, nil
}

// VariationLabel is the display label for an act's variation settings:
// "Wave N", the custom name, or "Custom". Acts without settings get "".
func VariationLabel(act catalog.Act) string {
	s := act.VariationSettings
	if s == nil {
		return ""
	}
	if s.Topology == catalog.TopologyCustom {
		if s.Name != "" {
			return s.Name
		}
		return "Custom"
	}
	return "Wave " + string(s.Topology)
}
