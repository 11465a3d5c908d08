package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
)

// SaveRegion stores region, assigning an id when it has none.
func (c *Catalog) SaveRegion(ctx context.Context, region catalog.Region) (catalog.Region, error) {
	if err := c.ready(); err != nil {
		return catalog.Region{}, err
	}
	region.Name = strings.TrimSpace(region.Name)
	if err := region.Validate(); err != nil {
		return catalog.Region{}, err
	}
	region.ID = strings.TrimSpace(region.ID)
	if region.ID == "" {
		regionID, err := c.newID()
		if err != nil {
			return catalog.Region{}, apperrors.Wrap(apperrors.CodeStorageFailure, "generate region id", err)
		}
		region.ID = regionID
	}
	if err := c.store.PutRegion(ctx, region); err != nil {
		return catalog.Region{}, storageError(err, apperrors.CodeStorageFailure, "put region")
	}
	return region, nil
}

// GetRegion returns one region.
func (c *Catalog) GetRegion(ctx context.Context, regionID string) (catalog.Region, error) {
	if err := c.ready(); err != nil {
		return catalog.Region{}, err
	}
	regionID = strings.TrimSpace(regionID)
	if regionID == "" {
		return catalog.Region{}, apperrors.New(apperrors.CodeRegionNotFound, "region id is required")
	}
	region, err := c.store.GetRegion(ctx, regionID)
	if err != nil {
		return catalog.Region{}, storageError(err, apperrors.CodeRegionNotFound, "get region "+regionID)
	}
	return region, nil
}

// ListRegions returns every region in creation order.
func (c *Catalog) ListRegions(ctx context.Context) ([]catalog.Region, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	regions, err := c.store.ListRegions(ctx)
	if err != nil {
		return nil, storageError(err, apperrors.CodeNotFound, "list regions")
	}
	return regions, nil
}

// DeleteRegion removes a region and every task in it. User progress on those
// tasks stays in local state.
func (c *Catalog) DeleteRegion(ctx context.Context, regionID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.store.DeleteRegion(ctx, strings.TrimSpace(regionID)); err != nil {
		return storageError(err, apperrors.CodeRegionNotFound, "delete region")
	}
	return nil
}

// SaveTask validates and stores task, assigning an id when it has none.
func (c *Catalog) SaveTask(ctx context.Context, task catalog.Task) (catalog.Task, error) {
	if err := c.ready(); err != nil {
		return catalog.Task{}, err
	}
	task = task.Normalize()
	if err := task.Validate(); err != nil {
		return catalog.Task{}, err
	}
	if task.ID == "" {
		taskID, err := c.newID()
		if err != nil {
			return catalog.Task{}, apperrors.Wrap(apperrors.CodeStorageFailure, "generate task id", err)
		}
		task.ID = taskID
	}
	if err := c.store.PutTask(ctx, task); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return catalog.Task{}, apperrors.WithMetadata(apperrors.CodeRegionNotFound,
				fmt.Sprintf("region %s not found", task.RegionID),
				map[string]string{"region": task.RegionID})
		}
		return catalog.Task{}, storageError(err, apperrors.CodeStorageFailure, "put task")
	}
	return task, nil
}

// GetTask returns one task.
func (c *Catalog) GetTask(ctx context.Context, taskID string) (catalog.Task, error) {
	if err := c.ready(); err != nil {
		return catalog.Task{}, err
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return catalog.Task{}, apperrors.New(apperrors.CodeTaskNotFound, "task id is required")
	}
	task, err := c.store.GetTask(ctx, taskID)
	if err != nil {
		return catalog.Task{}, storageError(err, apperrors.CodeTaskNotFound, "get task "+taskID)
	}
	return task, nil
}

// ListTasks returns tasks newest first; a non-empty regionID limits them to
// one region.
func (c *Catalog) ListTasks(ctx context.Context, regionID string) ([]catalog.Task, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	tasks, err := c.store.ListTasks(ctx, strings.TrimSpace(regionID))
	if err != nil {
		return nil, storageError(err, apperrors.CodeNotFound, "list tasks")
	}
	return tasks, nil
}

// DeleteTask removes one task.
func (c *Catalog) DeleteTask(ctx context.Context, taskID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.store.DeleteTask(ctx, strings.TrimSpace(taskID)); err != nil {
		return storageError(err, apperrors.CodeTaskNotFound, "delete task")
	}
	return nil
}
