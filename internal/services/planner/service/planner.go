package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/lineup"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/profile"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
)

// Planner is one user's lineup and profile state. Every mutation holds the
// lock for its full duration and writes the result to the local store before
// returning. Write failures are logged and the in-memory state stays.
type Planner struct {
	mu        sync.Mutex
	engine    *lineup.Engine
	selection profile.CharacterSelection
	tasks     profile.TaskProgress
	local     storage.LocalStore
	catalog   *Catalog
	seasons   *Seasons
}

// PlannerDeps groups the collaborators of a Planner.
type PlannerDeps struct {
	Local     storage.LocalStore
	Catalog   *Catalog
	Seasons   *Seasons
	MaxEnergy int
}

// NewPlanner loads saved state from deps.Local. Unreadable state is logged
// and replaced with an empty one.
func NewPlanner(deps PlannerDeps) (*Planner, error) {
	if deps.Local == nil {
		return nil, errors.New("local store is required")
	}
	configs, err := deps.Local.LoadLineup()
	if err != nil {
		log.Printf("load lineup: %v", err)
		configs = lineup.Configurations{}
	}
	selection, err := deps.Local.LoadCharacterSelection()
	if err != nil {
		log.Printf("load character selection: %v", err)
		selection = profile.CharacterSelection{}
	}
	tasks, err := deps.Local.LoadTaskProgress()
	if err != nil {
		log.Printf("load task progress: %v", err)
		tasks = profile.TaskProgress{}
	}
	return &Planner{
		engine:    lineup.NewEngine(configs, deps.MaxEnergy),
		selection: selection,
		tasks:     tasks,
		local:     deps.Local,
		catalog:   deps.Catalog,
		seasons:   deps.Seasons,
	}, nil
}

// MaxEnergy is the per-character chamber budget.
func (p *Planner) MaxEnergy() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.MaxEnergy()
}

// ActiveMode returns the active mode id.
func (p *Planner) ActiveMode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.ActiveMode()
}

// Active returns a copy of the active configuration.
func (p *Planner) Active() (lineup.Configuration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.Active()
}

// SetActiveMode switches to modeID after checking the mode exists.
func (p *Planner) SetActiveMode(ctx context.Context, modeID string) error {
	modeID = strings.TrimSpace(modeID)
	if p.catalog != nil {
		if _, err := p.catalog.GetMode(ctx, modeID); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.engine.SetActiveMode(modeID) {
		p.saveLineupLocked()
	}
	return nil
}

// UpdateSelectedRoster replaces the active mode's roster.
func (p *Planner) UpdateSelectedRoster(characterIDs []string) bool {
	return p.mutate(func(e *lineup.Engine) bool { return e.UpdateSelectedRoster(characterIDs) })
}

// Place puts characterID into actID.
func (p *Planner) Place(actID, characterID string) bool {
	return p.mutate(func(e *lineup.Engine) bool { return e.Place(actID, characterID) })
}

// Remove takes characterID out of actID.
func (p *Planner) Remove(actID, characterID string) bool {
	return p.mutate(func(e *lineup.Engine) bool { return e.Remove(actID, characterID) })
}

// SelectEnemyVariant sets the displayed enemy entry for actID.
func (p *Planner) SelectEnemyVariant(actID string, index int) bool {
	return p.mutate(func(e *lineup.Engine) bool { return e.SelectEnemyVariant(actID, index) })
}

// RemainingEnergy is the budget characterID has left in the active mode.
func (p *Planner) RemainingEnergy(characterID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.RemainingEnergy(characterID)
}

// Consumed is the energy characterID has used in the active mode.
func (p *Planner) Consumed(characterID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.Consumed(characterID)
}

func (p *Planner) mutate(fn func(*lineup.Engine) bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !fn(p.engine) {
		return false
	}
	p.saveLineupLocked()
	return true
}

func (p *Planner) saveLineupLocked() {
	if err := p.local.SaveLineup(p.engine.Configurations()); err != nil {
		log.Printf("save lineup: %v", err)
	}
}

// Selection returns the owned character ids.
func (p *Planner) Selection() profile.CharacterSelection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append(profile.CharacterSelection{}, p.selection...)
}

// ToggleCharacter flips ownership of characterID.
func (p *Planner) ToggleCharacter(characterID string) profile.CharacterSelection {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = p.selection.Toggle(characterID)
	if err := p.local.SaveCharacterSelection(p.selection); err != nil {
		log.Printf("save character selection: %v", err)
	}
	return append(profile.CharacterSelection{}, p.selection...)
}

// Tasks returns the task progress.
func (p *Planner) Tasks() profile.TaskProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append(profile.TaskProgress{}, p.tasks...)
}

// ToggleTask flips a task's finished flag. The task must exist in the
// tracker catalog; its region is taken from the catalog record.
func (p *Planner) ToggleTask(ctx context.Context, taskID string) (profile.TaskProgress, error) {
	task, err := p.trackerTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return p.updateTasks(func(t profile.TaskProgress) profile.TaskProgress {
		return t.ToggleTask(task.ID, task.RegionID)
	}), nil
}

// TogglePart flips one part of a series task.
func (p *Planner) TogglePart(ctx context.Context, taskID, partName string) (profile.TaskProgress, error) {
	task, err := p.trackerTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	partName = strings.TrimSpace(partName)
	if !task.Series || !task.HasPart(partName) {
		return nil, apperrors.WithMetadata(apperrors.CodeTaskPartNotFound,
			fmt.Sprintf("task %s has no part %q", task.ID, partName),
			map[string]string{"part": partName})
	}
	return p.updateTasks(func(t profile.TaskProgress) profile.TaskProgress {
		return t.TogglePart(task.ID, partName, task.RegionID)
	}), nil
}

func (p *Planner) trackerTask(ctx context.Context, taskID string) (catalog.Task, error) {
	if p.catalog == nil {
		return catalog.Task{}, errors.New("planner catalog is not configured")
	}
	return p.catalog.GetTask(ctx, taskID)
}

func (p *Planner) updateTasks(fn func(profile.TaskProgress) profile.TaskProgress) profile.TaskProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = fn(p.tasks)
	if err := p.local.SaveTaskProgress(p.tasks); err != nil {
		log.Printf("save task progress: %v", err)
	}
	return append(profile.TaskProgress{}, p.tasks...)
}

// View builds the lineup board for the active mode.
func (p *Planner) View(ctx context.Context) (lineup.View, error) {
	if p.catalog == nil || p.seasons == nil {
		return lineup.View{}, errors.New("planner catalog is not configured")
	}
	p.mu.Lock()
	modeID := p.engine.ActiveMode()
	config, _ := p.engine.Active()
	maxEnergy := p.engine.MaxEnergy()
	selection := append(profile.CharacterSelection{}, p.selection...)
	p.mu.Unlock()

	var mode catalog.Mode
	if modeID != "" {
		var err error
		mode, err = p.catalog.GetMode(ctx, modeID)
		if err != nil {
			return lineup.View{}, err
		}
	}
	current, err := p.seasons.Load(ctx)
	if err != nil {
		return lineup.View{}, err
	}
	all, err := p.catalog.ListCharacters(ctx, "")
	if err != nil {
		return lineup.View{}, err
	}
	owned := make([]catalog.Character, 0, len(selection))
	for _, character := range all {
		if selection.Has(character.ID) {
			owned = append(owned, character)
		}
	}
	return lineup.BuildView(lineup.ViewInput{
		Config:    config,
		Season:    current,
		Mode:      mode,
		Owned:     owned,
		All:       all,
		MaxEnergy: maxEnergy,
	}), nil
}
