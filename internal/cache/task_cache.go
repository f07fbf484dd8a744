package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// TaskCache stores serialized tasks and task-list pages under the owner's
// key namespace. It is a pure key-value layer with no ownership checks or
// business rules. It is never authoritative: every entry is reconstructable
// from the task store. Entries are replaced or deleted whole, never
// patched in place.
type TaskCache struct {
	backend Backend
}

// NewTaskCache creates a TaskCache over the given backend.
func NewTaskCache(backend Backend) *TaskCache {
	if backend == nil {
		panic("backend cannot be nil")
	}
	return &TaskCache{backend: backend}
}

// GetTask returns the cached point entry for the task, if present.
func (c *TaskCache) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, bool, error) {
	data, err := c.backend.Get(ctx, TaskKey(ownerID, taskID))
	if err != nil {
		if err == ErrCacheMiss {
			return nil, false, nil
		}
		return nil, false, err
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, false, fmt.Errorf("cache: unmarshal task: %w", err)
	}
	return &task, true, nil
}

// PutTask stores the task as a point entry with the given TTL.
func (c *TaskCache) PutTask(ctx context.Context, task *domain.Task, ttl time.Duration) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("cache: marshal task: %w", err)
	}
	return c.backend.SetWithTTL(ctx, TaskKey(task.OwnerID, task.ID), data, ttl)
}

// InvalidateTask removes the point entry for one task. Page entries are
// untouched; they live in a disjoint namespace.
func (c *TaskCache) InvalidateTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return c.backend.Delete(ctx, TaskKey(ownerID, taskID))
}

// GetPage returns the cached page for the exact descriptor, if present.
func (c *TaskCache) GetPage(ctx context.Context, ownerID uuid.UUID, desc PageDescriptor) (*domain.TaskPage, bool, error) {
	data, err := c.backend.Get(ctx, PageKey(ownerID, desc))
	if err != nil {
		if err == ErrCacheMiss {
			return nil, false, nil
		}
		return nil, false, err
	}

	var page domain.TaskPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("cache: unmarshal page: %w", err)
	}
	return &page, true, nil
}

// PutPage stores the page under its descriptor with the given TTL.
func (c *TaskCache) PutPage(ctx context.Context, ownerID uuid.UUID, desc PageDescriptor, page *domain.TaskPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("cache: marshal page: %w", err)
	}
	return c.backend.SetWithTTL(ctx, PageKey(ownerID, desc), data, ttl)
}

// InvalidateAllPages removes every cached list page for the owner,
// whatever filter and page number produced them. Deliberately coarse: any
// task mutation sweeps all of the owner's listings, trading hit rate for
// guaranteed freshness.
func (c *TaskCache) InvalidateAllPages(ctx context.Context, ownerID uuid.UUID) error {
	return c.backend.DeleteByPrefix(ctx, OwnerPagePrefix(ownerID))
}
