package catalog

// Enemy is a catalog enemy.
type Enemy struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Element    string `json:"element"`
	CategoryID string `json:"categoryId"`
	GroupID    string `json:"groupId"`
}

// EnemyInstance is a value copy of a catalog enemy placed into an act or wave.
type EnemyInstance struct {
	Enemy
	Quantity    *int `json:"quantity,omitempty"`
	SpecialMark bool `json:"specialMark"`
}

// NewEnemyInstance copies e and applies the selection options.
func NewEnemyInstance(e Enemy, opts EnemyOptions) EnemyInstance {
	instance := EnemyInstance{Enemy: e, SpecialMark: opts.SpecialType}
	if quantity, ok := opts.Quantity(); ok {
		instance.Quantity = &quantity
	}
	return instance
}

// CloneEnemies copies a list of instances, including quantity pointers.
func CloneEnemies(in []EnemyInstance) []EnemyInstance {
	if in == nil {
		return nil
	}
	out := make([]EnemyInstance, len(in))
	for i, enemy := range in {
		out[i] = enemy
		if enemy.Quantity != nil {
			quantity := *enemy.Quantity
			out[i].Quantity = &quantity
		}
	}
	return out
}

// Character is a playable character.
type Character struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Element string `json:"element,omitempty"`
	Rarity  int    `json:"rarity"`
}

// Elements lists the element names accepted for characters and season allow-lists.
var Elements = []string{"pyro", "hydro", "electro", "cryo", "dendro", "anemo", "geo"}

// ValidElement reports whether name is a known element.
func ValidElement(name string) bool {
	for _, element := range Elements {
		if element == name {
			return true
		}
	}
	return false
}
