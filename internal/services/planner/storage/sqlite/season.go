package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
)

// GetSeason returns the season override document.
func (s *Store) GetSeason(ctx context.Context) (season.Document, error) {
	if err := s.ready(ctx); err != nil {
		return season.Document{}, err
	}
	var payload string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT document_json FROM season_override WHERE singleton = 1`,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return season.Document{}, storage.ErrNotFound
		}
		return season.Document{}, fmt.Errorf("get season: %w", err)
	}
	var doc season.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return season.Document{}, fmt.Errorf("decode season: %w", err)
	}
	return doc, nil
}

// PutSeason replaces the season override document.
func (s *Store) PutSeason(ctx context.Context, doc season.Document) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload, err := encodeJSON(doc)
	if err != nil {
		return fmt.Errorf("encode season: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO season_override (singleton, document_json, updated_at)
		 VALUES (1, ?, ?)
		 ON CONFLICT(singleton) DO UPDATE SET
		   document_json = excluded.document_json,
		   updated_at = excluded.updated_at`,
		payload,
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("put season: %w", err)
	}
	return nil
}

// DeleteSeason removes the season override document. Deleting a missing
// document is not an error.
func (s *Store) DeleteSeason(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM season_override`); err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	return nil
}

// PatchActSeasonFields writes the season fields of acts in one transaction.
func (s *Store) PatchActSeasonFields(ctx context.Context, acts []catalog.Act) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin season patch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE acts
		    SET enemy_options_json = ?, enemy_selection_json = ?,
		        variation_settings_json = ?, variations_json = ?, updated_at = ?
		  WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare season patch: %w", err)
	}
	defer stmt.Close()

	now := toMillis(s.now())
	for _, act := range acts {
		row, err := encodeAct(act)
		if err != nil {
			return fmt.Errorf("patch act %s: %w", act.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			row.enemyOptions,
			row.enemySelection,
			row.variationSettings,
			row.variations,
			now,
			act.ID,
		); err != nil {
			return fmt.Errorf("patch act %s: %w", act.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit season patch: %w", err)
	}
	return nil
}

// ClearActSeasonFields resets the season fields of every act.
func (s *Store) ClearActSeasonFields(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE acts
		    SET enemy_options_json = NULL, enemy_selection_json = '[]',
		        variation_settings_json = NULL, variations_json = '[]', updated_at = ?`,
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("clear act season fields: %w", err)
	}
	return nil
}
