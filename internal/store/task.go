package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
)

// TaskFilter narrows task queries. Nil fields match everything; Search
// matches a case-insensitive title substring.
type TaskFilter struct {
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	IsCompleted *bool
	Search      string
}

// TaskStore defines the interface for task data persistence. It is the
// source of truth; the cache layer is rebuilt from it at any time.
//
// Every lookup is owner-scoped at the query level: rows belonging to other
// owners are excluded before any result is produced, so a task owned by
// someone else is indistinguishable from a missing one.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with the given ID owned by ownerID.
	// Returns ErrTaskNotFound if absent or owned by someone else.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks matching the filter, ordered by
	// creation time descending, windowed by offset and limit.
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter, offset, limit int) ([]*domain.Task, error)

	// Count returns the number of the owner's tasks matching the filter.
	Count(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) (int, error)

	// Update persists the full task record.
	// Returns ErrTaskNotFound if absent or owned by someone else.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with the given ID owned by ownerID.
	// Returns ErrTaskNotFound if absent or owned by someone else.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
