package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/platform/id"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
)

// CatalogStore is the storage Catalog needs.
type CatalogStore interface {
	storage.ActStore
	storage.EnemyStore
	storage.CharacterStore
	storage.ModeStore
	storage.TaskStore
}

// Catalog manages act, mode, enemy, character and task tracker records.
type Catalog struct {
	store CatalogStore
	clock func() time.Time
	newID func() (string, error)
}

// NewCatalog creates a catalog service backed by store.
func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{
		store: store,
		clock: time.Now,
		newID: id.New,
	}
}

func (c *Catalog) ready() error {
	if c == nil || c.store == nil {
		return errors.New("catalog store is not configured")
	}
	return nil
}

func (c *Catalog) now() time.Time {
	if c.clock == nil {
		return time.Now().UTC()
	}
	return c.clock().UTC()
}

// ActInput carries the admin-editable fields of a new act.
type ActInput struct {
	Ordinal int               `json:"name"`
	Type    catalog.FightType `json:"type"`
	Options catalog.Options   `json:"options"`
}

// ActPatch carries the fields an update may change. Nil fields are kept.
type ActPatch struct {
	Ordinal *int               `json:"name,omitempty"`
	Type    *catalog.FightType `json:"type,omitempty"`
	Options *catalog.Options   `json:"options,omitempty"`
}

// CreateAct validates the ordinal for its fight type and group, then stores a
// new act with empty season fields.
func (c *Catalog) CreateAct(ctx context.Context, in ActInput) (catalog.Act, error) {
	if err := c.ready(); err != nil {
		return catalog.Act{}, err
	}
	if err := catalog.ValidateOrdinal(in.Type, in.Ordinal); err != nil {
		return catalog.Act{}, err
	}
	existing, err := c.store.ListActs(ctx)
	if err != nil {
		return catalog.Act{}, storageError(err, apperrors.CodeNotFound, "list acts")
	}
	act := catalog.Act{
		Ordinal: in.Ordinal,
		Type:    in.Type,
		Options: in.Options,
	}.Normalize()
	if err := catalog.CheckOrdinalConflict(existing, act); err != nil {
		return catalog.Act{}, err
	}

	act.ID, err = c.newID()
	if err != nil {
		return catalog.Act{}, apperrors.Wrap(apperrors.CodeStorageFailure, "generate act id", err)
	}
	now := c.now()
	act.CreatedAt = now
	act.UpdatedAt = now
	if err := c.store.CreateAct(ctx, act); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return catalog.Act{}, catalog.DuplicateOrdinal(act, "")
		}
		return catalog.Act{}, storageError(err, apperrors.CodeStorageFailure, "create act")
	}
	return act, nil
}

// UpdateAct applies patch to the act with id. Uniqueness and range are only
// re-checked when the ordinal or fight type changes.
func (c *Catalog) UpdateAct(ctx context.Context, actID string, patch ActPatch) (catalog.Act, error) {
	if err := c.ready(); err != nil {
		return catalog.Act{}, err
	}
	act, err := c.GetAct(ctx, actID)
	if err != nil {
		return catalog.Act{}, err
	}

	moved := false
	if patch.Ordinal != nil && *patch.Ordinal != act.Ordinal {
		act.Ordinal = *patch.Ordinal
		moved = true
	}
	if patch.Type != nil && *patch.Type != act.Type {
		act.Type = *patch.Type
		moved = true
	}
	if patch.Options != nil {
		act.Options = *patch.Options
	}
	if moved {
		if err := catalog.ValidateOrdinal(act.Type, act.Ordinal); err != nil {
			return catalog.Act{}, err
		}
		existing, err := c.store.ListActs(ctx)
		if err != nil {
			return catalog.Act{}, storageError(err, apperrors.CodeNotFound, "list acts")
		}
		if err := catalog.CheckOrdinalConflict(existing, act); err != nil {
			return catalog.Act{}, err
		}
	}

	act.UpdatedAt = c.now()
	if err := c.store.UpdateAct(ctx, act); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return catalog.Act{}, catalog.DuplicateOrdinal(act, "")
		}
		return catalog.Act{}, storageError(err, apperrors.CodeActNotFound, "update act")
	}
	return act, nil
}

// GetAct returns one act.
func (c *Catalog) GetAct(ctx context.Context, actID string) (catalog.Act, error) {
	if err := c.ready(); err != nil {
		return catalog.Act{}, err
	}
	actID = strings.TrimSpace(actID)
	if actID == "" {
		return catalog.Act{}, apperrors.New(apperrors.CodeActNotFound, "act id is required")
	}
	act, err := c.store.GetAct(ctx, actID)
	if err != nil {
		return catalog.Act{}, storageError(err, apperrors.CodeActNotFound, "get act "+actID)
	}
	return act, nil
}

// DeleteAct removes an act. Modes and lineups that reference it keep the id.
func (c *Catalog) DeleteAct(ctx context.Context, actID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.store.DeleteAct(ctx, strings.TrimSpace(actID)); err != nil {
		return storageError(err, apperrors.CodeActNotFound, "delete act")
	}
	return nil
}

// ListActs returns every act in storage order.
func (c *Catalog) ListActs(ctx context.Context) ([]catalog.Act, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	acts, err := c.store.ListActs(ctx)
	if err != nil {
		return nil, storageError(err, apperrors.CodeNotFound, "list acts")
	}
	return acts, nil
}

// ListActsSorted returns acts grouped Variation, Boss, Arcana and ordered by
// ordinal within each group.
func (c *Catalog) ListActsSorted(ctx context.Context) ([]catalog.Act, error) {
	acts, err := c.ListActs(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.SortActs(acts), nil
}

// SaveMode validates and stores mode. A mode without an id is created.
func (c *Catalog) SaveMode(ctx context.Context, mode catalog.Mode) (catalog.Mode, error) {
	if err := c.ready(); err != nil {
		return catalog.Mode{}, err
	}
	mode.Name = strings.TrimSpace(mode.Name)
	if err := mode.Validate(); err != nil {
		return catalog.Mode{}, err
	}
	mode.ID = strings.TrimSpace(mode.ID)
	if mode.ID == "" {
		modeID, err := c.newID()
		if err != nil {
			return catalog.Mode{}, apperrors.Wrap(apperrors.CodeStorageFailure, "generate mode id", err)
		}
		mode.ID = modeID
	} else if _, err := c.GetMode(ctx, mode.ID); err != nil {
		return catalog.Mode{}, err
	}
	if mode.Chambers == nil {
		mode.Chambers = []string{}
	}
	if err := c.store.PutMode(ctx, mode); err != nil {
		return catalog.Mode{}, storageError(err, apperrors.CodeModeNotFound, "put mode")
	}
	return mode, nil
}

// GetMode returns one mode.
func (c *Catalog) GetMode(ctx context.Context, modeID string) (catalog.Mode, error) {
	if err := c.ready(); err != nil {
		return catalog.Mode{}, err
	}
	modeID = strings.TrimSpace(modeID)
	if modeID == "" {
		return catalog.Mode{}, apperrors.New(apperrors.CodeModeNotFound, "mode id is required")
	}
	mode, err := c.store.GetMode(ctx, modeID)
	if err != nil {
		return catalog.Mode{}, storageError(err, apperrors.CodeModeNotFound, "get mode "+modeID)
	}
	return mode, nil
}

// ListModes returns every mode.
func (c *Catalog) ListModes(ctx context.Context) ([]catalog.Mode, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	modes, err := c.store.ListModes(ctx)
	if err != nil {
		return nil, storageError(err, apperrors.CodeNotFound, "list modes")
	}
	return modes, nil
}

// DeleteMode removes a mode. Saved lineups for it are left in place.
func (c *Catalog) DeleteMode(ctx context.Context, modeID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.store.DeleteMode(ctx, strings.TrimSpace(modeID)); err != nil {
		return storageError(err, apperrors.CodeModeNotFound, "delete mode")
	}
	return nil
}

// SaveEnemy stores enemy, assigning an id when it has none.
func (c *Catalog) SaveEnemy(ctx context.Context, enemy catalog.Enemy) (catalog.Enemy, error) {
	if err := c.ready(); err != nil {
		return catalog.Enemy{}, err
	}
	enemy.Name = strings.TrimSpace(enemy.Name)
	if enemy.Name == "" {
		return catalog.Enemy{}, apperrors.New(apperrors.CodeNameEmpty, "enemy name is required")
	}
	if strings.TrimSpace(enemy.ID) == "" {
		enemyID, err := c.newID()
		if err != nil {
			return catalog.Enemy{}, apperrors.Wrap(apperrors.CodeStorageFailure, "generate enemy id", err)
		}
		enemy.ID = enemyID
	}
	if err := c.store.PutEnemy(ctx, enemy); err != nil {
		return catalog.Enemy{}, storageError(err, apperrors.CodeNotFound, "put enemy")
	}
	return enemy, nil
}

// GetEnemy returns one enemy.
func (c *Catalog) GetEnemy(ctx context.Context, enemyID string) (catalog.Enemy, error) {
	if err := c.ready(); err != nil {
		return catalog.Enemy{}, err
	}
	enemy, err := c.store.GetEnemy(ctx, strings.TrimSpace(enemyID))
	if err != nil {
		return catalog.Enemy{}, storageError(err, apperrors.CodeNotFound, "get enemy "+enemyID)
	}
	return enemy, nil
}

// ListEnemies lists enemies matching an AIP-160 filter.
func (c *Catalog) ListEnemies(ctx context.Context, filter string) ([]catalog.Enemy, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	enemies, err := c.store.ListEnemies(ctx, filter)
	if err != nil {
		return nil, listError(err, filter, "list enemies")
	}
	return enemies, nil
}

// DeleteEnemy removes an enemy. Copies already attached to acts stay.
func (c *Catalog) DeleteEnemy(ctx context.Context, enemyID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.store.DeleteEnemy(ctx, strings.TrimSpace(enemyID)); err != nil {
		return storageError(err, apperrors.CodeNotFound, "delete enemy")
	}
	return nil
}

// SaveCharacter stores character, assigning an id when it has none.
func (c *Catalog) SaveCharacter(ctx context.Context, character catalog.Character) (catalog.Character, error) {
	if err := c.ready(); err != nil {
		return catalog.Character{}, err
	}
	character.Name = strings.TrimSpace(character.Name)
	if character.Name == "" {
		return catalog.Character{}, apperrors.New(apperrors.CodeNameEmpty, "character name is required")
	}
	character.Element = strings.ToLower(strings.TrimSpace(character.Element))
	if character.Element != "" && !catalog.ValidElement(character.Element) {
		return catalog.Character{}, apperrors.WithMetadata(apperrors.CodeInvalidRequest,
			fmt.Sprintf("unknown element %q", character.Element),
			map[string]string{"element": character.Element})
	}
	if strings.TrimSpace(character.ID) == "" {
		characterID, err := c.newID()
		if err != nil {
			return catalog.Character{}, apperrors.Wrap(apperrors.CodeStorageFailure, "generate character id", err)
		}
		character.ID = characterID
	}
	if err := c.store.PutCharacter(ctx, character); err != nil {
		return catalog.Character{}, storageError(err, apperrors.CodeNotFound, "put character")
	}
	return character, nil
}

// GetCharacter returns one character.
func (c *Catalog) GetCharacter(ctx context.Context, characterID string) (catalog.Character, error) {
	if err := c.ready(); err != nil {
		return catalog.Character{}, err
	}
	character, err := c.store.GetCharacter(ctx, strings.TrimSpace(characterID))
	if err != nil {
		return catalog.Character{}, storageError(err, apperrors.CodeNotFound, "get character "+characterID)
	}
	return character, nil
}

// ListCharacters lists characters matching an AIP-160 filter.
func (c *Catalog) ListCharacters(ctx context.Context, filter string) ([]catalog.Character, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	characters, err := c.store.ListCharacters(ctx, filter)
	if err != nil {
		return nil, listError(err, filter, "list characters")
	}
	return characters, nil
}

// DeleteCharacter removes a character.
func (c *Catalog) DeleteCharacter(ctx context.Context, characterID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.store.DeleteCharacter(ctx, strings.TrimSpace(characterID)); err != nil {
		return storageError(err, apperrors.CodeNotFound, "delete character")
	}
	return nil
}

// resolveCharacters looks up ids in order, failing on the first unknown id.
func (c *Catalog) resolveCharacters(ctx context.Context, ids []string) ([]catalog.Character, error) {
	out := make([]catalog.Character, 0, len(ids))
	for _, characterID := range ids {
		character, err := c.GetCharacter(ctx, characterID)
		if err != nil {
			return nil, err
		}
		out = append(out, character)
	}
	return out, nil
}

// resolveEnemies looks up ids in order, failing on the first unknown id.
func (c *Catalog) resolveEnemies(ctx context.Context, ids []string) ([]catalog.Enemy, error) {
	out := make([]catalog.Enemy, 0, len(ids))
	for _, enemyID := range ids {
		enemy, err := c.GetEnemy(ctx, enemyID)
		if err != nil {
			return nil, err
		}
		out = append(out, enemy)
	}
	return out, nil
}
