package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
)

const actColumns = `id, ordinal, fight_type, options_json, enemy_options_json,
		        enemy_selection_json, variation_settings_json, variations_json,
		        created_at, updated_at`

func ordinalGroup(t catalog.FightType) string {
	if t == catalog.FightArcana {
		return "arcana"
	}
	return "main"
}

type actRow struct {
	options           string
	enemyOptions      sql.NullString
	enemySelection    string
	variationSettings sql.NullString
	variations        string
}

func encodeAct(act catalog.Act) (actRow, error) {
	act = act.Normalize()
	var row actRow
	var err error
	if row.options, err = encodeJSON(act.Options); err != nil {
		return actRow{}, fmt.Errorf("encode options: %w", err)
	}
	if row.enemyOptions, err = encodeOptionalJSON(act.EnemyOptions); err != nil {
		return actRow{}, fmt.Errorf("encode enemy options: %w", err)
	}
	if row.enemySelection, err = encodeJSON(act.EnemySelection); err != nil {
		return actRow{}, fmt.Errorf("encode enemy selection: %w", err)
	}
	if row.variationSettings, err = encodeOptionalJSON(act.VariationSettings); err != nil {
		return actRow{}, fmt.Errorf("encode variation settings: %w", err)
	}
	if row.variations, err = encodeJSON(act.Variations); err != nil {
		return actRow{}, fmt.Errorf("encode variations: %w", err)
	}
	return row, nil
}

// CreateAct inserts one act. Ordinal collisions within a group return
// storage.ErrAlreadyExists.
func (s *Store) CreateAct(ctx context.Context, act catalog.Act) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("act", act.ID)
	if err != nil {
		return err
	}
	row, err := encodeAct(act)
	if err != nil {
		return err
	}
	createdAt := act.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	updatedAt := act.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO acts (
		   id, ordinal, fight_type, ordinal_group, options_json, enemy_options_json,
		   enemy_selection_json, variation_settings_json, variations_json,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		act.Ordinal,
		string(act.Type),
		ordinalGroup(act.Type),
		row.options,
		row.enemyOptions,
		row.enemySelection,
		row.variationSettings,
		row.variations,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create act: %w", err)
	}
	return nil
}

// UpdateAct overwrites every field of an existing act.
func (s *Store) UpdateAct(ctx context.Context, act catalog.Act) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("act", act.ID)
	if err != nil {
		return err
	}
	row, err := encodeAct(act)
	if err != nil {
		return err
	}
	updatedAt := act.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE acts
		    SET ordinal = ?, fight_type = ?, ordinal_group = ?, options_json = ?,
		        enemy_options_json = ?, enemy_selection_json = ?,
		        variation_settings_json = ?, variations_json = ?, updated_at = ?
		  WHERE id = ?`,
		act.Ordinal,
		string(act.Type),
		ordinalGroup(act.Type),
		row.options,
		row.enemyOptions,
		row.enemySelection,
		row.variationSettings,
		row.variations,
		toMillis(updatedAt),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("update act: %w", err)
	}
	return expectAffected(result, "update act")
}

// GetAct returns one act by id.
func (s *Store) GetAct(ctx context.Context, id string) (catalog.Act, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Act{}, err
	}
	id, err := requireID("act", id)
	if err != nil {
		return catalog.Act{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+actColumns+` FROM acts WHERE id = ?`, id)
	act, err := scanAct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Act{}, storage.ErrNotFound
		}
		return catalog.Act{}, fmt.Errorf("get act: %w", err)
	}
	return act, nil
}

// ListActs returns every act ordered by creation time.
func (s *Store) ListActs(ctx context.Context) ([]catalog.Act, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+actColumns+` FROM acts ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list acts: %w", err)
	}
	defer rows.Close()

	acts := []catalog.Act{}
	for rows.Next() {
		act, err := scanAct(rows)
		if err != nil {
			return nil, fmt.Errorf("list acts: %w", err)
		}
		acts = append(acts, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list acts: %w", err)
	}
	return acts, nil
}

// DeleteAct removes one act. Nothing referencing the act is touched.
func (s *Store) DeleteAct(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("act", id)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM acts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete act: %w", err)
	}
	return expectAffected(result, "delete act")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAct(scanner rowScanner) (catalog.Act, error) {
	var (
		act       catalog.Act
		fightType string
		row       actRow
		createdAt int64
		updatedAt int64
	)
	if err := scanner.Scan(
		&act.ID,
		&act.Ordinal,
		&fightType,
		&row.options,
		&row.enemyOptions,
		&row.enemySelection,
		&row.variationSettings,
		&row.variations,
		&createdAt,
		&updatedAt,
	); err != nil {
		return catalog.Act{}, err
	}
	act.Type = catalog.FightType(strings.TrimSpace(fightType))
	if err := decodeInto(row.options, &act.Options); err != nil {
		return catalog.Act{}, fmt.Errorf("decode options: %w", err)
	}
	var err error
	if act.EnemyOptions, err = decodeOptionalJSON[catalog.EnemyOptions](row.enemyOptions); err != nil {
		return catalog.Act{}, fmt.Errorf("decode enemy options: %w", err)
	}
	if err := decodeInto(row.enemySelection, &act.EnemySelection); err != nil {
		return catalog.Act{}, fmt.Errorf("decode enemy selection: %w", err)
	}
	if act.VariationSettings, err = decodeOptionalJSON[catalog.VariationSettings](row.variationSettings); err != nil {
		return catalog.Act{}, fmt.Errorf("decode variation settings: %w", err)
	}
	if err := decodeInto(row.variations, &act.Variations); err != nil {
		return catalog.Act{}, fmt.Errorf("decode variations: %w", err)
	}
	act.CreatedAt = fromMillis(createdAt)
	act.UpdatedAt = fromMillis(updatedAt)
	return act.Normalize(), nil
}
