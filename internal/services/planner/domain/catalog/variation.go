package catalog

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
)

// Topology selects how many waves a variation has.
type Topology string

const (
	TopologyOne    Topology = "1"
	TopologyTwo    Topology = "2"
	TopologyThree  Topology = "3"
	TopologyCustom Topology = "custom"
)

// ParseTopology validates a wire topology value.
func ParseTopology(value string) (Topology, error) {
	t := Topology(strings.TrimSpace(value))
	if t.WaveCount() == 0 {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidTopology,
			fmt.Sprintf("unknown topology %q", value),
			map[string]string{"topology": value})
	}
	return t, nil
}

// WaveCount resolves the topology to its wave count. Custom is a single wave.
// Unknown values resolve to zero.
func (t Topology) WaveCount() int {
	switch t {
	case TopologyOne, TopologyCustom:
		return 1
	case TopologyTwo:
		return 2
	case TopologyThree:
		return 3
	default:
		return 0
	}
}

// Wave is one sequential stage of a variation.
type Wave struct {
	Index   int             `json:"waveCount"`
	Enemies []EnemyInstance `json:"included_enemy"`
}

// Variation is one structural configuration of an act.
type Variation struct {
	Timer    string   `json:"timer"`
	Topology Topology `json:"wave"`
	Waves    []Wave   `json:"waves"`
	Name     string   `json:"name,omitempty"`
	Monolith bool     `json:"monolit,omitempty"`
	Defeat   string   `json:"defeat,omitempty"`
}

// Clone deep-copies the wave list and its enemies.
func (v Variation) Clone() Variation {
	out := v
	if v.Waves != nil {
		out.Waves = make([]Wave, len(v.Waves))
		for i, wave := range v.Waves {
			out.Waves[i] = Wave{Index: wave.Index, Enemies: CloneEnemies(wave.Enemies)}
		}
	}
	return out
}

// VariationSettings is the act-level variation descriptor used for labels.
type VariationSettings struct {
	Topology Topology `json:"wave"`
	Timer    string   `json:"timer"`
	Name     string   `json:"name,omitempty"`
	Monolith bool     `json:"monolit,omitempty"`
}
