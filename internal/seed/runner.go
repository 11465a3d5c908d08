package seed

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/service"
)

// DefaultFile is the starter catalog shipped with the repository.
const DefaultFile = "internal/seed/fixtures/catalog.yaml"

// CatalogWriter is the catalog surface the seeder writes through.
type CatalogWriter interface {
	SaveCharacter(ctx context.Context, character catalog.Character) (catalog.Character, error)
	SaveEnemy(ctx context.Context, enemy catalog.Enemy) (catalog.Enemy, error)
	CreateAct(ctx context.Context, in service.ActInput) (catalog.Act, error)
	ListActs(ctx context.Context) ([]catalog.Act, error)
	SaveMode(ctx context.Context, mode catalog.Mode) (catalog.Mode, error)
	ListModes(ctx context.Context) ([]catalog.Mode, error)
	SaveRegion(ctx context.Context, region catalog.Region) (catalog.Region, error)
	SaveTask(ctx context.Context, task catalog.Task) (catalog.Task, error)
}

// Result counts what a seed run wrote.
type Result struct {
	Characters   int
	Enemies      int
	ActsCreated  int
	ActsExisting int
	ModesCreated int
	ModesUpdated int
	Regions      int
	Tasks        int
}

// String formats r for the command summary line.
func (r Result) String() string {
	return fmt.Sprintf("characters=%d enemies=%d acts=%d (existing %d) modes=%d (updated %d) regions=%d tasks=%d",
		r.Characters, r.Enemies, r.ActsCreated, r.ActsExisting, r.ModesCreated, r.ModesUpdated, r.Regions, r.Tasks)
}

// Apply writes file through w. Characters and enemies are upserted by id.
// Acts already present with the same type and ordinal are reused, and modes
// are matched by name, so running the same file twice is harmless. Regions
// and tasks are upserted by id.
func Apply(ctx context.Context, w CatalogWriter, file File, verbose bool) (Result, error) {
	var result Result
	for _, c := range file.Characters {
		if _, err := w.SaveCharacter(ctx, catalog.Character{
			ID:      c.ID,
			Name:    c.Name,
			Element: c.Element,
			Rarity:  c.Rarity,
		}); err != nil {
			return result, fmt.Errorf("save character %q: %w", c.Name, err)
		}
		result.Characters++
	}
	for _, e := range file.Enemies {
		if _, err := w.SaveEnemy(ctx, catalog.Enemy{
			ID:         e.ID,
			Name:       e.Name,
			Element:    e.Element,
			CategoryID: e.CategoryID,
			GroupID:    e.GroupID,
		}); err != nil {
			return result, fmt.Errorf("save enemy %q: %w", e.Name, err)
		}
		result.Enemies++
	}

	actIDs, err := applyActs(ctx, w, file.Acts, &result, verbose)
	if err != nil {
		return result, err
	}
	if err := applyModes(ctx, w, file.Modes, actIDs, &result, verbose); err != nil {
		return result, err
	}
	for _, region := range file.Regions {
		saved, err := w.SaveRegion(ctx, catalog.Region{ID: region.ID, Name: region.Name})
		if err != nil {
			return result, fmt.Errorf("save region %q: %w", region.Name, err)
		}
		result.Regions++
		for _, task := range region.Tasks {
			if _, err := w.SaveTask(ctx, task.task(saved.ID)); err != nil {
				return result, fmt.Errorf("save task %q: %w", task.Name, err)
			}
			result.Tasks++
		}
	}
	return result, nil
}

func applyActs(ctx context.Context, w CatalogWriter, acts []ActSeed, result *Result, verbose bool) (map[string]string, error) {
	existing, err := w.ListActs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list acts: %w", err)
	}
	ids := make(map[string]string, len(acts))
	for _, seed := range acts {
		key := strings.TrimSpace(seed.Key)
		fight := catalog.FightType(strings.TrimSpace(seed.Type))
		if id, ok := findAct(existing, fight, seed.Ordinal); ok {
			ids[key] = id
			result.ActsExisting++
			continue
		}
		act, err := w.CreateAct(ctx, service.ActInput{
			Ordinal: seed.Ordinal,
			Type:    fight,
			Options: seed.Options.options(),
		})
		if err != nil {
			return nil, fmt.Errorf("create act %q: %w", key, err)
		}
		if verbose {
			log.Printf("created act %s (%s %d)", act.ID, act.Type, act.Ordinal)
		}
		existing = append(existing, act)
		ids[key] = act.ID
		result.ActsCreated++
	}
	return ids, nil
}

func findAct(acts []catalog.Act, fight catalog.FightType, ordinal int) (string, bool) {
	for _, act := range acts {
		if act.Type == fight && act.Ordinal == ordinal {
			return act.ID, true
		}
	}
	return "", false
}

func applyModes(ctx context.Context, w CatalogWriter, modes []ModeSeed, actIDs map[string]string, result *Result, verbose bool) error {
	existing, err := w.ListModes(ctx)
	if err != nil {
		return fmt.Errorf("list modes: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, mode := range existing {
		byName[strings.ToLower(mode.Name)] = mode.ID
	}
	for _, seed := range modes {
		chambers := make([]string, 0, len(seed.Chambers))
		for _, key := range seed.Chambers {
			chambers = append(chambers, actIDs[strings.TrimSpace(key)])
		}
		mode := catalog.Mode{
			ID:            byName[strings.ToLower(strings.TrimSpace(seed.Name))],
			Name:          seed.Name,
			MinCharacters: seed.MinCharacters,
			MaxCharacters: seed.MaxCharacters,
			Chambers:      chambers,
		}
		updating := mode.ID != ""
		saved, err := w.SaveMode(ctx, mode)
		if err != nil {
			return fmt.Errorf("save mode %q: %w", seed.Name, err)
		}
		if verbose {
			log.Printf("saved mode %s (%s)", saved.ID, saved.Name)
		}
		if updating {
			result.ModesUpdated++
		} else {
			result.ModesCreated++
		}
	}
	return nil
}

// Config holds seed runner configuration.
type Config struct {
	File    string
	Verbose bool
}

// Run parses cfg.File and applies it through w.
func Run(ctx context.Context, w CatalogWriter, cfg Config) (Result, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		path = DefaultFile
	}
	file, err := LoadFile(path)
	if err != nil {
		return Result{}, err
	}
	if cfg.Verbose {
		log.Printf("loaded %s: %d characters, %d enemies, %d acts, %d modes, %d regions",
			path, len(file.Characters), len(file.Enemies), len(file.Acts), len(file.Modes), len(file.Regions))
	}
	return Apply(ctx, w, file, cfg.Verbose)
}
