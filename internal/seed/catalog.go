// Package seed loads a YAML catalog file into the planner through the catalog
// service, so ordinal and element validation apply to seeded data too.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
)

// File is the seed catalog layout.
type File struct {
	Characters []CharacterSeed `yaml:"characters"`
	Enemies    []EnemySeed     `yaml:"enemies"`
	Acts       []ActSeed       `yaml:"acts"`
	Modes      []ModeSeed      `yaml:"modes"`
	Regions    []RegionSeed    `yaml:"regions"`
}

// CharacterSeed is one playable character.
type CharacterSeed struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Element string `yaml:"element"`
	Rarity  int    `yaml:"rarity"`
}

// EnemySeed is one catalog enemy.
type EnemySeed struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Element    string `yaml:"element"`
	CategoryID string `yaml:"category_id"`
	GroupID    string `yaml:"group_id"`
}

// ActSeed is one catalog act. Key is local to the file and lets modes refer
// to acts before they have ids.
type ActSeed struct {
	Key     string      `yaml:"key"`
	Ordinal int         `yaml:"ordinal"`
	Type    string      `yaml:"type"`
	Options OptionsSeed `yaml:"options"`
}

// OptionsSeed mirrors catalog.Options.
type OptionsSeed struct {
	Amount      bool `yaml:"amount"`
	TimerEnable bool `yaml:"timer_enable"`
	Defeat      bool `yaml:"defeat"`
	SpecialType bool `yaml:"special_type"`
}

// ModeSeed is one game mode; Chambers lists act keys.
type ModeSeed struct {
	Name          string   `yaml:"name"`
	MinCharacters int      `yaml:"min_characters"`
	MaxCharacters int      `yaml:"max_characters"`
	Chambers      []string `yaml:"chambers"`
}

// RegionSeed is one task tracker region with its tasks.
type RegionSeed struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Tasks []TaskSeed `yaml:"tasks"`
}

// TaskSeed is one tracker task. A task with parts is a series.
type TaskSeed struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Achievement string   `yaml:"achievement"`
	VideoLink   string   `yaml:"video_link"`
	Parts       []string `yaml:"parts"`
}

// LoadFile reads and parses a seed file from disk.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	file, err := Parse(bytes.NewReader(data))
	if err != nil {
		return File{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return file, nil
}

// Parse decodes a seed file and checks its internal references. Unknown
// fields are rejected.
func Parse(r io.Reader) (File, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, err
	}
	if err := file.validate(); err != nil {
		return File{}, err
	}
	return file, nil
}

func (f File) validate() error {
	keys := make(map[string]struct{}, len(f.Acts))
	for i, act := range f.Acts {
		key := strings.TrimSpace(act.Key)
		if key == "" {
			return fmt.Errorf("act %d: key is required", i)
		}
		if _, dup := keys[key]; dup {
			return fmt.Errorf("act %d: duplicate key %q", i, key)
		}
		if _, err := catalog.ParseFightType(act.Type); err != nil {
			return fmt.Errorf("act %q: %w", key, err)
		}
		keys[key] = struct{}{}
	}
	for _, mode := range f.Modes {
		for _, key := range mode.Chambers {
			if _, ok := keys[strings.TrimSpace(key)]; !ok {
				return fmt.Errorf("mode %q: unknown chamber %q", mode.Name, key)
			}
		}
	}
	regions := make(map[string]struct{}, len(f.Regions))
	tasks := map[string]struct{}{}
	for i, region := range f.Regions {
		id := strings.TrimSpace(region.ID)
		if id == "" {
			return fmt.Errorf("region %d: id is required", i)
		}
		if _, dup := regions[id]; dup {
			return fmt.Errorf("region %d: duplicate id %q", i, id)
		}
		regions[id] = struct{}{}
		for j, task := range region.Tasks {
			taskID := strings.TrimSpace(task.ID)
			if taskID == "" {
				return fmt.Errorf("region %q task %d: id is required", id, j)
			}
			if _, dup := tasks[taskID]; dup {
				return fmt.Errorf("region %q task %d: duplicate id %q", id, j, taskID)
			}
			tasks[taskID] = struct{}{}
		}
	}
	return nil
}

func (t TaskSeed) task(regionID string) catalog.Task {
	parts := make([]catalog.TaskPart, 0, len(t.Parts))
	for _, name := range t.Parts {
		parts = append(parts, catalog.TaskPart{Name: name})
	}
	return catalog.Task{
		ID:          t.ID,
		Name:        t.Name,
		RegionID:    regionID,
		Achievement: t.Achievement,
		VideoLink:   t.VideoLink,
		Series:      len(parts) > 0,
		Parts:       parts,
	}
}

func (o OptionsSeed) options() catalog.Options {
	return catalog.Options{
		Amount:      o.Amount,
		TimerEnable: o.TimerEnable,
		Defeat:      o.Defeat,
		SpecialType: o.SpecialType,
	}
}
