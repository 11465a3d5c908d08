// Package storage defines persistence contracts for planner state.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/lineup"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/profile"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness constraint rejected the write.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInvalidFilter indicates a list filter expression could not be parsed.
	ErrInvalidFilter = errors.New("invalid filter")
)

// ActStore persists catalog acts.
type ActStore interface {
	CreateAct(ctx context.Context, act catalog.Act) error
	UpdateAct(ctx context.Context, act catalog.Act) error
	GetAct(ctx context.Context, id string) (catalog.Act, error)
	ListActs(ctx context.Context) ([]catalog.Act, error)
	DeleteAct(ctx context.Context, id string) error
}

// SeasonStore persists the singleton season override and the season fields
// mirrored onto catalog acts.
type SeasonStore interface {
	// GetSeason returns ErrNotFound when no override has been saved.
	GetSeason(ctx context.Context) (season.Document, error)
	// PutSeason overwrites the override document.
	PutSeason(ctx context.Context, doc season.Document) error
	DeleteSeason(ctx context.Context) error
	// PatchActSeasonFields writes enemy_selection, enemy_options, variations
	// and variation_fight_settings of every given act in one batch. Acts
	// missing from the catalog are skipped.
	PatchActSeasonFields(ctx context.Context, acts []catalog.Act) error
	// ClearActSeasonFields empties the four season fields on every act.
	ClearActSeasonFields(ctx context.Context) error
}

// EnemyStore persists the enemy catalog.
type EnemyStore interface {
	PutEnemy(ctx context.Context, enemy catalog.Enemy) error
	GetEnemy(ctx context.Context, id string) (catalog.Enemy, error)
	// ListEnemies applies an AIP-160 filter over name, element, category_id
	// and group_id. An empty filter lists everything.
	ListEnemies(ctx context.Context, filter string) ([]catalog.Enemy, error)
	DeleteEnemy(ctx context.Context, id string) error
}

// CharacterStore persists the character catalog.
type CharacterStore interface {
	PutCharacter(ctx context.Context, character catalog.Character) error
	GetCharacter(ctx context.Context, id string) (catalog.Character, error)
	// ListCharacters applies an AIP-160 filter over name, element and rarity.
	ListCharacters(ctx context.Context, filter string) ([]catalog.Character, error)
	DeleteCharacter(ctx context.Context, id string) error
}

// ModeStore persists game modes.
type ModeStore interface {
	PutMode(ctx context.Context, mode catalog.Mode) error
	GetMode(ctx context.Context, id string) (catalog.Mode, error)
	ListModes(ctx context.Context) ([]catalog.Mode, error)
	DeleteMode(ctx context.Context, id string) error
}

// TaskStore persists the task tracker catalog.
type TaskStore interface {
	PutRegion(ctx context.Context, region catalog.Region) error
	GetRegion(ctx context.Context, id string) (catalog.Region, error)
	// ListRegions returns regions in creation order.
	ListRegions(ctx context.Context) ([]catalog.Region, error)
	// DeleteRegion removes the region together with its tasks.
	DeleteRegion(ctx context.Context, id string) error
	// PutTask returns ErrNotFound when the task's region does not exist.
	PutTask(ctx context.Context, task catalog.Task) error
	GetTask(ctx context.Context, id string) (catalog.Task, error)
	// ListTasks returns tasks newest first. A non-empty regionID limits the
	// result to that region.
	ListTasks(ctx context.Context, regionID string) ([]catalog.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// CatalogStore is the full shared document store.
type CatalogStore interface {
	ActStore
	SeasonStore
	EnemyStore
	CharacterStore
	ModeStore
	TaskStore
	Close() error
}

// LocalStore persists one user's offline state. Loads of never-written
// state return zero values and no error.
type LocalStore interface {
	LoadLineup() (lineup.Configurations, error)
	SaveLineup(configs lineup.Configurations) error
	LoadCharacterSelection() (profile.CharacterSelection, error)
	SaveCharacterSelection(selection profile.CharacterSelection) error
	LoadTaskProgress() (profile.TaskProgress, error)
	SaveTaskProgress(progress profile.TaskProgress) error
}
