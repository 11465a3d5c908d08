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

// PutMode inserts or replaces one mode. The creation time of an existing
// mode is kept so list order is stable across edits.
func (s *Store) PutMode(ctx context.Context, mode catalog.Mode) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("mode", mode.ID)
	if err != nil {
		return err
	}
	chambers := mode.Chambers
	if chambers == nil {
		chambers = []string{}
	}
	chambersJSON, err := encodeJSON(chambers)
	if err != nil {
		return fmt.Errorf("encode chambers: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO modes (id, name, min_characters, max_characters, chambers_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   min_characters = excluded.min_characters,
		   max_characters = excluded.max_characters,
		   chambers_json = excluded.chambers_json`,
		id,
		strings.TrimSpace(mode.Name),
		mode.MinCharacters,
		mode.MaxCharacters,
		chambersJSON,
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("put mode: %w", err)
	}
	return nil
}

// GetMode returns one mode by id.
func (s *Store) GetMode(ctx context.Context, id string) (catalog.Mode, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Mode{}, err
	}
	id, err := requireID("mode", id)
	if err != nil {
		return catalog.Mode{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, min_characters, max_characters, chambers_json FROM modes WHERE id = ?`, id)
	mode, err := scanMode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Mode{}, storage.ErrNotFound
		}
		return catalog.Mode{}, fmt.Errorf("get mode: %w", err)
	}
	return mode, nil
}

// ListModes returns every mode in creation order.
func (s *Store) ListModes(ctx context.Context) ([]catalog.Mode, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, min_characters, max_characters, chambers_json
		   FROM modes
		  ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list modes: %w", err)
	}
	defer rows.Close()

	modes := []catalog.Mode{}
	for rows.Next() {
		mode, err := scanMode(rows)
		if err != nil {
			return nil, fmt.Errorf("list modes: %w", err)
		}
		modes = append(modes, mode)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list modes: %w", err)
	}
	return modes, nil
}

// DeleteMode removes one mode.
func (s *Store) DeleteMode(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("mode", id)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM modes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete mode: %w", err)
	}
	return expectAffected(result, "delete mode")
}

func scanMode(scanner rowScanner) (catalog.Mode, error) {
	var mode catalog.Mode
	var chambers string
	if err := scanner.Scan(&mode.ID, &mode.Name, &mode.MinCharacters, &mode.MaxCharacters, &chambers); err != nil {
		return catalog.Mode{}, err
	}
	mode.Chambers = []string{}
	if err := decodeInto(chambers, &mode.Chambers); err != nil {
		return catalog.Mode{}, fmt.Errorf("decode chambers: %w", err)
	}
	return mode, nil
}
