// Package local persists one user's offline planner state with gdata, the
// per-user application data store.
package local

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/lineup"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/profile"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
	"github.com/quasilyte/gdata/v2"
)

const (
	lineupObject      = "lineup"
	configurationProp = "configurations"
	profileObject     = "profile"
	charactersProp    = "characters"
	tasksProp         = "tasks"
)

// KV is the object/property store the local state is written to.
// *gdata.Manager satisfies it.
type KV interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// Store reads and writes JSON payloads through a KV.
type Store struct {
	kv KV
}

// Open opens the gdata store for appName.
func Open(appName string) (*Store, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return nil, fmt.Errorf("local app name is required")
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open local data: %w", err)
	}
	return New(manager), nil
}

// New wraps kv. A nil kv keeps state in memory only.
func New(kv KV) *Store {
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Store{kv: kv}
}

// LoadLineup returns the saved per-mode configurations.
func (s *Store) LoadLineup() (lineup.Configurations, error) {
	configs := lineup.Configurations{}
	if err := s.load(lineupObject, configurationProp, &configs); err != nil {
		return lineup.Configurations{}, err
	}
	return configs, nil
}

// SaveLineup writes every per-mode configuration as one JSON object keyed by mode id.
func (s *Store) SaveLineup(configs lineup.Configurations) error {
	if configs == nil {
		configs = lineup.Configurations{}
	}
	return s.save(lineupObject, configurationProp, configs)
}

// LoadCharacterSelection returns the owned character ids.
func (s *Store) LoadCharacterSelection() (profile.CharacterSelection, error) {
	selection := profile.CharacterSelection{}
	if err := s.load(profileObject, charactersProp, &selection); err != nil {
		return profile.CharacterSelection{}, err
	}
	return selection, nil
}

// SaveCharacterSelection writes the owned character ids.
func (s *Store) SaveCharacterSelection(selection profile.CharacterSelection) error {
	if selection == nil {
		selection = profile.CharacterSelection{}
	}
	return s.save(profileObject, charactersProp, selection)
}

// LoadTaskProgress returns the user's task progress.
func (s *Store) LoadTaskProgress() (profile.TaskProgress, error) {
	progress := profile.TaskProgress{}
	if err := s.load(profileObject, tasksProp, &progress); err != nil {
		return profile.TaskProgress{}, err
	}
	return progress, nil
}

// SaveTaskProgress writes the user's task progress.
func (s *Store) SaveTaskProgress(progress profile.TaskProgress) error {
	if progress == nil {
		progress = profile.TaskProgress{}
	}
	return s.save(profileObject, tasksProp, progress)
}

func (s *Store) load(object, prop string, target any) error {
	if !s.kv.ObjectPropExists(object, prop) {
		return nil
	}
	data, err := s.kv.LoadObjectProp(object, prop)
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", object, prop, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s/%s: %w", object, prop, err)
	}
	return nil
}

func (s *Store) save(object, prop string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", object, prop, err)
	}
	if err := s.kv.SaveObjectProp(object, prop, data); err != nil {
		return fmt.Errorf("save %s/%s: %w", object, prop, err)
	}
	return nil
}

// MemoryKV is an in-process KV.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func memoryKey(objectKey, propKey string) string {
	return objectKey + "/" + propKey
}

// ObjectPropExists reports whether a value was saved.
func (m *MemoryKV) ObjectPropExists(objectKey, propKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[memoryKey(objectKey, propKey)]
	return ok
}

// LoadObjectProp returns a copy of the saved value.
func (m *MemoryKV) LoadObjectProp(objectKey, propKey string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[memoryKey(objectKey, propKey)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", memoryKey(objectKey, propKey), storage.ErrNotFound)
	}
	return append([]byte(nil), value...), nil
}

// SaveObjectProp stores a copy of data.
func (m *MemoryKV) SaveObjectProp(objectKey, propKey string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memoryKey(objectKey, propKey)] = append([]byte(nil), data...)
	return nil
}

var (
	_ storage.LocalStore = (*Store)(nil)
	_ KV                 = (*gdata.Manager)(nil)
)
