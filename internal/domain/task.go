package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task validation errors. All wrap ErrValidation so callers can match the
// whole family with one errors.Is check.
var (
	ErrEmptyTaskID        = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyOwnerID       = fmt.Errorf("%w: task owner ID cannot be empty", ErrValidation)
	ErrEmptyTitle         = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTitleTooLong       = fmt.Errorf("%w: task title must be at most 200 characters long", ErrValidation)
	ErrDescriptionTooLong = fmt.Errorf("%w: task description must be at most 2000 characters long", ErrValidation)
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusArchived   TaskStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	}
	return false
}

// Task is a single to-do item belonging to exactly one owner. Ownership
// never transfers; every query is scoped to the owner ID.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	IsCompleted bool         `json:"is_completed"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a task in the default todo/medium state. Zero-value
// priority defaults to medium.
func NewTask(ownerID uuid.UUID, title, description string, priority TaskPriority, dueDate *time.Time) (*Task, error) {
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      TaskStatusTodo,
		Priority:    priority,
		IsCompleted: false,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks field constraints.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return ErrTitleTooLong
	}
	if len(t.Description) > 2000 {
		return ErrDescriptionTooLong
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// TaskUpdate is a sparse patch: nil fields are left untouched rather than
// reset. Each present field is applied by explicit assignment.
type TaskUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	IsCompleted *bool         `json:"is_completed,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
}

// Apply copies the present fields onto the task, enforces the
// completion coupling, and bumps UpdatedAt.
//
// Marking a task completed forces its status to done, even when the same
// patch carries an explicit status. The reverse does not hold: patching
// status to done leaves the completion flag alone, and clearing the flag
// does not move the task out of done.
func (p TaskUpdate) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}

	if p.IsCompleted != nil && *p.IsCompleted {
		t.Status = TaskStatusDone
	}

	t.UpdatedAt = time.Now().UTC()
}
