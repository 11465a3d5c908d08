package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/theater.planner/internal/platform/filter"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
)

var enemyFilter = filter.NewSchema(
	filter.Field{Name: "name", Column: "name", Kind: filter.String},
	filter.Field{Name: "element", Column: "element", Kind: filter.String},
	filter.Field{Name: "category_id", Column: "category_id", Kind: filter.String},
	filter.Field{Name: "group_id", Column: "group_id", Kind: filter.String},
)

var characterFilter = filter.NewSchema(
	filter.Field{Name: "name", Column: "name", Kind: filter.String},
	filter.Field{Name: "element", Column: "element", Kind: filter.String},
	filter.Field{Name: "rarity", Column: "rarity", Kind: filter.Int},
)

func whereClause(schema filter.Schema, expression string) (string, []any, error) {
	cond, err := schema.Parse(expression)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", storage.ErrInvalidFilter, err)
	}
	if cond.Empty() {
		return "", nil, nil
	}
	return " WHERE " + cond.Clause, cond.Params, nil
}

// PutEnemy inserts or replaces one enemy.
func (s *Store) PutEnemy(ctx context.Context, enemy catalog.Enemy) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("enemy", enemy.ID)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(enemy.Name)
	if name == "" {
		return fmt.Errorf("enemy name is required")
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO enemies (id, name, element, category_id, group_id)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   element = excluded.element,
		   category_id = excluded.category_id,
		   group_id = excluded.group_id`,
		id,
		name,
		strings.TrimSpace(enemy.Element),
		strings.TrimSpace(enemy.CategoryID),
		strings.TrimSpace(enemy.GroupID),
	)
	if err != nil {
		return fmt.Errorf("put enemy: %w", err)
	}
	return nil
}

// GetEnemy returns one enemy by id.
func (s *Store) GetEnemy(ctx context.Context, id string) (catalog.Enemy, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Enemy{}, err
	}
	id, err := requireID("enemy", id)
	if err != nil {
		return catalog.Enemy{}, err
	}
	var enemy catalog.Enemy
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, element, category_id, group_id FROM enemies WHERE id = ?`, id,
	).Scan(&enemy.ID, &enemy.Name, &enemy.Element, &enemy.CategoryID, &enemy.GroupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Enemy{}, storage.ErrNotFound
		}
		return catalog.Enemy{}, fmt.Errorf("get enemy: %w", err)
	}
	return enemy, nil
}

// ListEnemies returns enemies matching an AIP-160 filter, ordered by name.
func (s *Store) ListEnemies(ctx context.Context, expression string) ([]catalog.Enemy, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	where, params, err := whereClause(enemyFilter, expression)
	if err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, element, category_id, group_id FROM enemies`+where+` ORDER BY name ASC, id ASC`,
		params...,
	)
	if err != nil {
		return nil, fmt.Errorf("list enemies: %w", err)
	}
	defer rows.Close()

	enemies := []catalog.Enemy{}
	for rows.Next() {
		var enemy catalog.Enemy
		if err := rows.Scan(&enemy.ID, &enemy.Name, &enemy.Element, &enemy.CategoryID, &enemy.GroupID); err != nil {
			return nil, fmt.Errorf("list enemies: %w", err)
		}
		enemies = append(enemies, enemy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list enemies: %w", err)
	}
	return enemies, nil
}

// DeleteEnemy removes one enemy. Copies already placed in acts are kept.
func (s *Store) DeleteEnemy(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("enemy", id)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM enemies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete enemy: %w", err)
	}
	return expectAffected(result, "delete enemy")
}

// PutCharacter inserts or replaces one character.
func (s *Store) PutCharacter(ctx context.Context, character catalog.Character) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("character", character.ID)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(character.Name)
	if name == "" {
		return fmt.Errorf("character name is required")
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO characters (id, name, element, rarity)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   element = excluded.element,
		   rarity = excluded.rarity`,
		id,
		name,
		strings.TrimSpace(character.Element),
		character.Rarity,
	)
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	return nil
}

// GetCharacter returns one character by id.
func (s *Store) GetCharacter(ctx context.Context, id string) (catalog.Character, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Character{}, err
	}
	id, err := requireID("character", id)
	if err != nil {
		return catalog.Character{}, err
	}
	var character catalog.Character
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, element, rarity FROM characters WHERE id = ?`, id,
	).Scan(&character.ID, &character.Name, &character.Element, &character.Rarity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Character{}, storage.ErrNotFound
		}
		return catalog.Character{}, fmt.Errorf("get character: %w", err)
	}
	return character, nil
}

// ListCharacters returns characters matching an AIP-160 filter, highest
// rarity first.
func (s *Store) ListCharacters(ctx context.Context, expression string) ([]catalog.Character, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	where, params, err := whereClause(characterFilter, expression)
	if err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, element, rarity FROM characters`+where+` ORDER BY rarity DESC, name ASC, id ASC`,
		params...,
	)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	characters := []catalog.Character{}
	for rows.Next() {
		var character catalog.Character
		if err := rows.Scan(&character.ID, &character.Name, &character.Element, &character.Rarity); err != nil {
			return nil, fmt.Errorf("list characters: %w", err)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return characters, nil
}

// DeleteCharacter removes one character.
func (s *Store) DeleteCharacter(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("character", id)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	return expectAffected(result, "delete character")
}
