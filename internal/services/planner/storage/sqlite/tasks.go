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

// PutRegion inserts or renames one region.
func (s *Store) PutRegion(ctx context.Context, region catalog.Region) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("region", region.ID)
	if err != nil {
		return err
	}
	now := toMillis(s.now())
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO regions (id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   updated_at = excluded.updated_at`,
		id, strings.TrimSpace(region.Name), now, now,
	)
	if err != nil {
		return fmt.Errorf("put region: %w", err)
	}
	return nil
}

// GetRegion returns one region by id.
func (s *Store) GetRegion(ctx context.Context, id string) (catalog.Region, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Region{}, err
	}
	id, err := requireID("region", id)
	if err != nil {
		return catalog.Region{}, err
	}
	var region catalog.Region
	err = s.sqlDB.QueryRowContext(ctx, `SELECT id, name FROM regions WHERE id = ?`, id).Scan(&region.ID, &region.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Region{}, storage.ErrNotFound
		}
		return catalog.Region{}, fmt.Errorf("get region: %w", err)
	}
	return region, nil
}

// ListRegions returns every region in creation order.
func (s *Store) ListRegions(ctx context.Context) ([]catalog.Region, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name FROM regions ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	regions := []catalog.Region{}
	for rows.Next() {
		var region catalog.Region
		if err := rows.Scan(&region.ID, &region.Name); err != nil {
			return nil, fmt.Errorf("list regions: %w", err)
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

// DeleteRegion removes one region and every task filed under it.
func (s *Store) DeleteRegion(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("region", id)
	if err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin region delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM regions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	if err := expectAffected(result, "delete region"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM region_tasks WHERE region_id = ?`, id); err != nil {
		return fmt.Errorf("delete region tasks: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit region delete: %w", err)
	}
	return nil
}

// PutTask inserts or replaces one task. The task's region must exist.
func (s *Store) PutTask(ctx context.Context, task catalog.Task) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("task", task.ID)
	if err != nil {
		return err
	}
	regionID, err := requireID("region", task.RegionID)
	if err != nil {
		return err
	}
	parts := task.Parts
	if parts == nil {
		parts = []catalog.TaskPart{}
	}
	partsJSON, err := encodeJSON(parts)
	if err != nil {
		return fmt.Errorf("encode task parts: %w", err)
	}
	now := toMillis(s.now())
	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO region_tasks (id, region_id, name, achievement, video_link, series, parts_json, created_at, updated_at)
		 SELECT ?, id, ?, ?, ?, ?, ?, ?, ? FROM regions WHERE id = ?
		 ON CONFLICT(id) DO UPDATE SET
		   region_id = excluded.region_id,
		   name = excluded.name,
		   achievement = excluded.achievement,
		   video_link = excluded.video_link,
		   series = excluded.series,
		   parts_json = excluded.parts_json,
		   updated_at = excluded.updated_at`,
		id,
		strings.TrimSpace(task.Name),
		task.Achievement,
		task.VideoLink,
		task.Series,
		partsJSON,
		now,
		now,
		regionID,
	)
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return expectAffected(result, "put task")
}

// GetTask returns one task by id.
func (s *Store) GetTask(ctx context.Context, id string) (catalog.Task, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Task{}, err
	}
	id, err := requireID("task", id)
	if err != nil {
		return catalog.Task{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, region_id, name, achievement, video_link, series, parts_json
		   FROM region_tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Task{}, storage.ErrNotFound
		}
		return catalog.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks newest first, optionally limited to one region.
func (s *Store) ListTasks(ctx context.Context, regionID string) ([]catalog.Task, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := `SELECT id, region_id, name, achievement, video_link, series, parts_json FROM region_tasks`
	var args []any
	if regionID = strings.TrimSpace(regionID); regionID != "" {
		query += ` WHERE region_id = ?`
		args = append(args, regionID)
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []catalog.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask removes one task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id, err := requireID("task", id)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM region_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectAffected(result, "delete task")
}

func scanTask(scanner rowScanner) (catalog.Task, error) {
	var task catalog.Task
	var parts string
	if err := scanner.Scan(&task.ID, &task.RegionID, &task.Name, &task.Achievement, &task.VideoLink, &task.Series, &parts); err != nil {
		return catalog.Task{}, err
	}
	task.Parts = []catalog.TaskPart{}
	if err := decodeInto(parts, &task.Parts); err != nil {
		return catalog.Task{}, fmt.Errorf("decode task parts: %w", err)
	}
	return task, nil
}
