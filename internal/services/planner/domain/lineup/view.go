package lineup

import (
	"sort"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/structure"
)

// CharacterView is a character with its remaining energy in the active mode.
type CharacterView struct {
	catalog.Character
	Energy int `json:"energy"`
}

// ChamberView is one chamber of the lineup board.
type ChamberView struct {
	Act         catalog.Act             `json:"act"`
	Label       string                  `json:"label,omitempty"`
	Placed      []catalog.Character     `json:"placed"`
	Enemies     []catalog.EnemyInstance `json:"enemies"`
	ActiveEnemy int                     `json:"active_enemy"`
}

// View is the derived lineup board for one mode.
type View struct {
	ModeID    string              `json:"mode_id"`
	ModeName  string              `json:"mode_name"`
	MaxEnergy int                 `json:"max_energy"`
	Elements  []string            `json:"elements"`
	Roster    []CharacterView     `json:"roster"`
	Opening   []CharacterView     `json:"opening"`
	Available []catalog.Character `json:"available"`
	Left      []ChamberView       `json:"left"`
	Right     []ChamberView       `json:"right"`
	Arcana    []ChamberView       `json:"arcana"`
}

// ViewInput is everything BuildView derives from.
type ViewInput struct {
	Config    Configuration
	Season    season.Season
	Mode      catalog.Mode
	Owned     []catalog.Character
	All       []catalog.Character
	MaxEnergy int
}

// BuildView derives the lineup board. It never mutates its input.
func BuildView(in ViewInput) View {
	maxEnergy := in.MaxEnergy
	if maxEnergy <= 0 {
		maxEnergy = DefaultMaxEnergy
	}
	view := View{
		ModeID:    in.Mode.ID,
		ModeName:  in.Mode.Name,
		MaxEnergy: maxEnergy,
		Elements:  append([]string{}, in.Season.ElementTypes...),
		Roster:    []CharacterView{},
		Opening:   []CharacterView{},
		Available: AvailableCharacters(in.Owned, in.Season),
	}

	remaining := func(c catalog.Character) CharacterView {
		left := maxEnergy - in.Config.Consumed(c.ID)
		if left < 0 {
			left = 0
		}
		return CharacterView{Character: c, Energy: left}
	}

	for _, c := range rosterCharacters(in.Config, in.Owned, in.Season) {
		view.Roster = append(view.Roster, remaining(c))
	}
	for _, c := range in.Season.OpeningCharacters {
		view.Opening = append(view.Opening, remaining(c))
	}

	lookup := make(map[string]catalog.Character, len(in.All))
	for _, c := range in.All {
		lookup[c.ID] = c
	}
	chamber := func(act catalog.Act) ChamberView {
		cv := ChamberView{
			Act:         act,
			Label:       structure.VariationLabel(act),
			Placed:      []catalog.Character{},
			Enemies:     ChamberEnemies(act),
			ActiveEnemy: in.Config.EnemyVariant(act.ID),
		}
		for _, id := range in.Config.Placements[act.ID] {
			if c, ok := lookup[id]; ok {
				cv.Placed = append(cv.Placed, c)
			}
		}
		return cv
	}

	chambers := catalog.ResolveChambers(in.Mode, in.Season.Acts)
	for _, act := range chambers.Left {
		view.Left = append(view.Left, chamber(act))
	}
	for _, act := range chambers.Right {
		view.Right = append(view.Right, chamber(act))
	}
	for _, act := range chambers.Arcana {
		view.Arcana = append(view.Arcana, chamber(act))
	}
	return view
}

// ChamberEnemies lists the enemies shown for an act: the first enemy of the
// first wave of every variation for Variation acts, the enemy selection
// otherwise.
func ChamberEnemies(act catalog.Act) []catalog.EnemyInstance {
	out := []catalog.EnemyInstance{}
	if act.Type != catalog.FightVariation {
		return append(out, act.EnemySelection...)
	}
	for _, variation := range act.Variations {
		if len(variation.Waves) == 0 || len(variation.Waves[0].Enemies) == 0 {
			continue
		}
		out = append(out, variation.Waves[0].Enemies[0])
	}
	return out
}

// AvailableCharacters is the roster picker list: owned characters that are
// not opening characters and, when the season restricts elements, that match
// an allowed element.
func AvailableCharacters(owned []catalog.Character, s season.Season) []catalog.Character {
	opening := make(map[string]struct{}, len(s.OpeningCharacters))
	for _, c := range s.OpeningCharacters {
		opening[c.ID] = struct{}{}
	}
	allowed := make(map[string]struct{}, len(s.ElementTypes))
	for _, element := range s.ElementTypes {
		allowed[element] = struct{}{}
	}

	out := []catalog.Character{}
	for _, c := range owned {
		if _, ok := opening[c.ID]; ok {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[c.Element]; !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// rosterCharacters resolves selected ids against owned characters plus the
// special guests the user owns, highest rarity first.
func rosterCharacters(config Configuration, owned []catalog.Character, s season.Season) []catalog.Character {
	selected := make(map[string]struct{}, len(config.SelectedCharacters))
	for _, id := range config.SelectedCharacters {
		selected[id] = struct{}{}
	}
	if len(selected) == 0 {
		return nil
	}

	byID := make(map[string]catalog.Character, len(owned)+len(s.SpecialGuests))
	var order []string
	add := func(c catalog.Character) {
		if _, seen := byID[c.ID]; !seen {
			order = append(order, c.ID)
		}
		byID[c.ID] = c
	}
	for _, c := range owned {
		add(c)
	}
	for _, guest := range s.SpecialGuests {
		if _, ok := byID[guest.ID]; ok {
			add(guest)
		}
	}

	var out []catalog.Character
	for _, id := range order {
		if _, ok := selected[id]; ok {
			out = append(out, byID[id])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rarity != out[j].Rarity {
			return out[i].Rarity > out[j].Rarity
		}
		return out[i].Name < out[j].Name
	})
	return out
}
