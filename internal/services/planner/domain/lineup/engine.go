// Package lineup tracks which characters occupy which chambers of a mode and
// how much of each character's energy those placements consume.
//
// The engine is synchronous and does no I/O. Mutations that would break an
// invariant are ignored and report false; callers read state back to find
// out what happened.
package lineup

// DefaultMaxEnergy is how many chambers one character may occupy per mode.
const DefaultMaxEnergy = 2

// Configuration is one mode's lineup state.
type Configuration struct {
	SelectedCharacters []string            `json:"selectedCharacters"`
	Placements         map[string][]string `json:"placements"`
	EnergyState        map[string]int      `json:"energyState"`
	SelectedEnemies    map[string]int      `json:"selectedEnemyIndices,omitempty"`
}

func newConfiguration() Configuration {
	return Configuration{
		SelectedCharacters: []string{},
		Placements:         map[string][]string{},
		EnergyState:        map[string]int{},
		SelectedEnemies:    map[string]int{},
	}
}

// Clone deep-copies the configuration.
func (c Configuration) Clone() Configuration {
	out := newConfiguration()
	out.SelectedCharacters = append(out.SelectedCharacters, c.SelectedCharacters...)
	for actID, ids := range c.Placements {
		out.Placements[actID] = append([]string{}, ids...)
	}
	for id, used := range c.EnergyState {
		out.EnergyState[id] = used
	}
	for actID, index := range c.SelectedEnemies {
		out.SelectedEnemies[actID] = index
	}
	return out
}

// Consumed is the energy c has used; unknown characters have used none.
func (c Configuration) Consumed(characterID string) int {
	return c.EnergyState[characterID]
}

// PlacedIn reports whether characterID occupies actID.
func (c Configuration) PlacedIn(actID, characterID string) bool {
	for _, id := range c.Placements[actID] {
		if id == characterID {
			return true
		}
	}
	return false
}

// EnemyVariant is the displayed enemy index for actID, zero by default.
func (c Configuration) EnemyVariant(actID string) int {
	return c.SelectedEnemies[actID]
}

// Configurations maps mode id to that mode's configuration.
type Configurations map[string]Configuration

// Clone deep-copies every configuration.
func (c Configurations) Clone() Configurations {
	out := make(Configurations, len(c))
	for id, config := range c {
		out[id] = config.Clone()
	}
	return out
}

// Engine owns the configurations and the active mode pointer.
type Engine struct {
	configs   Configurations
	active    string
	maxEnergy int
}

// NewEngine starts from loaded configurations. A non-positive maxEnergy
// falls back to DefaultMaxEnergy.
func NewEngine(configs Configurations, maxEnergy int) *Engine {
	if maxEnergy <= 0 {
		maxEnergy = DefaultMaxEnergy
	}
	return &Engine{configs: configs.Clone(), maxEnergy: maxEnergy}
}

// MaxEnergy is the engine's per-character budget.
func (e *Engine) MaxEnergy() int {
	return e.maxEnergy
}

// ActiveMode returns the active mode id, or "" before any mode is set.
func (e *Engine) ActiveMode() string {
	return e.active
}

// SetActiveMode points the engine at modeID, creating an empty
// configuration the first time the mode is seen. It reports whether a
// configuration was created.
func (e *Engine) SetActiveMode(modeID string) bool {
	e.active = modeID
	if _, ok := e.configs[modeID]; ok {
		return false
	}
	e.configs[modeID] = newConfiguration()
	return true
}

// Active returns a copy of the active configuration.
func (e *Engine) Active() (Configuration, bool) {
	if e.active == "" {
		return Configuration{}, false
	}
	config, ok := e.configs[e.active]
	if !ok {
		return Configuration{}, false
	}
	return config.Clone(), true
}

// Configurations returns a copy of every configuration for persistence.
func (e *Engine) Configurations() Configurations {
	return e.configs.Clone()
}

// UpdateSelectedRoster replaces the active mode's roster. Placements and
// energy of characters dropped from the roster are kept.
func (e *Engine) UpdateSelectedRoster(characterIDs []string) bool {
	config, ok := e.activeConfig()
	if !ok {
		return false
	}
	config.SelectedCharacters = append([]string{}, characterIDs...)
	e.configs[e.active] = config
	return true
}

// Place puts characterID into actID using the engine budget.
func (e *Engine) Place(actID, characterID string) bool {
	return e.PlaceWithMax(actID, characterID, e.maxEnergy)
}

// PlaceWithMax puts characterID into actID unless it is already there or has
// consumed maxEnergy.
func (e *Engine) PlaceWithMax(actID, characterID string, maxEnergy int) bool {
	config, ok := e.activeConfig()
	if !ok || actID == "" || characterID == "" {
		return false
	}
	if config.PlacedIn(actID, characterID) {
		return false
	}
	used := config.EnergyState[characterID]
	if used >= maxEnergy {
		return false
	}

	next := config.Clone()
	next.Placements[actID] = append(next.Placements[actID], characterID)
	next.EnergyState[characterID] = used + 1
	e.configs[e.active] = next
	return true
}

// Remove takes characterID out of actID and refunds one energy.
func (e *Engine) Remove(actID, characterID string) bool {
	config, ok := e.activeConfig()
	if !ok || !config.PlacedIn(actID, characterID) {
		return false
	}

	next := config.Clone()
	kept := next.Placements[actID][:0]
	for _, id := range next.Placements[actID] {
		if id != characterID {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		delete(next.Placements, actID)
	} else {
		next.Placements[actID] = kept
	}
	if used := next.EnergyState[characterID]; used > 1 {
		next.EnergyState[characterID] = used - 1
	} else {
		delete(next.EnergyState, characterID)
	}
	e.configs[e.active] = next
	return true
}

// SelectEnemyVariant sets which enemy entry of actID is displayed.
func (e *Engine) SelectEnemyVariant(actID string, index int) bool {
	config, ok := e.activeConfig()
	if !ok || actID == "" || index < 0 {
		return false
	}
	next := config.Clone()
	next.SelectedEnemies[actID] = index
	e.configs[e.active] = next
	return true
}

// Consumed is the energy characterID has used in the active mode.
func (e *Engine) Consumed(characterID string) int {
	config, ok := e.activeConfig()
	if !ok {
		return 0
	}
	return config.Consumed(characterID)
}

// RemainingEnergy is the budget left for characterID in the active mode.
func (e *Engine) RemainingEnergy(characterID string) int {
	return e.maxEnergy - e.Consumed(characterID)
}

// Placements lists the characters in actID for the active mode.
func (e *Engine) Placements(actID string) []string {
	config, ok := e.activeConfig()
	if !ok {
		return nil
	}
	return append([]string(nil), config.Placements[actID]...)
}

func (e *Engine) activeConfig() (Configuration, bool) {
	if e.active == "" {
		return Configuration{}, false
	}
	config, ok := e.configs[e.active]
	if !ok {
		return Configuration{}, false
	}
	return config, true
}
