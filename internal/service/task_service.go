// Package service implements the business operations of the API: task
// CRUD with the cache-aside read layer, and user account management. It
// sits between the HTTP handlers and the store and cache layers.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/cache"
	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskService coordinates the task store and the task cache. The store is
// the sole source of truth; the cache is an optional read accelerator.
// Reads consult the cache first and fall back to the store, writes go to
// the store and then invalidate. A cache outage degrades every operation
// to its store-only path, it never fails a request.
type TaskService struct {
	tasks           store.TaskStore
	cache           *cache.TaskCache
	ttl             time.Duration
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, taskCache *cache.TaskCache, cacheCfg config.CacheConfig, pageCfg config.PaginationConfig, log *slog.Logger) *TaskService {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if taskCache == nil {
		panic("taskCache cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{
		tasks:           tasks,
		cache:           taskCache,
		ttl:             time.Duration(cacheCfg.TTLSeconds) * time.Second,
		defaultPageSize: pageCfg.DefaultPageSize,
		maxPageSize:     pageCfg.MaxPageSize,
		logger:          log.With(slog.String("component", "task_service")),
	}
}

// Create validates and persists a new task, then sweeps the owner's
// cached list pages so the next listing sees it. The point cache is not
// pre-populated; the first read fills it.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, title, description string, priority domain.TaskPriority, dueDate *time.Time) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, title, description, priority, dueDate)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.sweepPages(ctx, ownerID)
	return task, nil
}

// Get returns one of the owner's tasks, serving from the cache when
// possible. On a hit the store is not touched at all. On a miss the store
// row is fetched and written back best-effort.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, ok, err := s.cache.GetTask(ctx, ownerID, taskID)
	if err != nil {
		log.Warn("task cache read failed, falling back to store",
			slog.String("task_id", taskID.String()),
			slog.Any("error", err))
	} else if ok {
		return task, nil
	}

	task, err = s.tasks.GetByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.PutTask(ctx, task, s.ttl); err != nil {
		log.Warn("failed to populate task cache",
			slog.String("task_id", taskID.String()),
			slog.Any("error", err))
	}
	return task, nil
}

// List returns one page of the owner's tasks matching the filter. The
// page size is clamped to the configured maximum and defaulted when
// unset; page numbers below one are treated as the first page. Identical
// queries share one cache entry keyed by the filter-and-window descriptor.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter, page, pageSize int) (*domain.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	desc := cache.PageDescriptor{Filter: filter, Page: page, PageSize: pageSize}

	cached, ok, err := s.cache.GetPage(ctx, ownerID, desc)
	if err != nil {
		log.Warn("page cache read failed, falling back to store", slog.Any("error", err))
	} else if ok {
		return cached, nil
	}

	total, err := s.tasks.Count(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	items, err := s.tasks.List(ctx, ownerID, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := &domain.TaskPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pageCount(total, pageSize),
	}

	if err := s.cache.PutPage(ctx, ownerID, desc, result, s.ttl); err != nil {
		log.Warn("failed to populate page cache", slog.Any("error", err))
	}
	return result, nil
}

// Update applies a sparse patch to one of the owner's tasks. The current
// record comes through the cache-aside read path, the patched record is
// validated and written to the store, and only then are the point entry
// and the owner's list pages invalidated. A store failure leaves the
// cache untouched, so it never outlives the data it mirrors.
//
// Concurrent updates to the same task are last-write-wins; there is no
// version column on task rows.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	patch.Apply(task)
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.invalidateTask(ctx, ownerID, taskID)
	s.sweepPages(ctx, ownerID)
	return task, nil
}

// Delete removes one of the owner's tasks and invalidates its caches.
// Absent tasks and tasks owned by someone else both surface as
// store.ErrTaskNotFound, so a repeated delete fails the same way as a
// delete of a task that never existed.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, taskID, ownerID); err != nil {
		return err
	}

	s.invalidateTask(ctx, ownerID, taskID)
	s.sweepPages(ctx, ownerID)
	return nil
}

// invalidateTask drops the point entry, logging instead of failing.
func (s *TaskService) invalidateTask(ctx context.Context, ownerID, taskID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := s.cache.InvalidateTask(ctx, ownerID, taskID); err != nil {
		log.Warn("failed to invalidate task cache entry",
			slog.String("task_id", taskID.String()),
			slog.Any("error", err))
	}
}

// sweepPages drops every cached list page of the owner, logging instead
// of failing. Entries that survive a failed sweep expire via TTL.
func (s *TaskService) sweepPages(ctx context.Context, ownerID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := s.cache.InvalidateAllPages(ctx, ownerID); err != nil {
		log.Warn("failed to sweep cached task pages",
			slog.String("owner_id", ownerID.String()),
			slog.Any("error", err))
	}
}

// pageCount is ceil(total/pageSize), with zero pages for zero rows.
func pageCount(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
