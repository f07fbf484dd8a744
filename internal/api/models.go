package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// Request and response payloads for the HTTP surface. Pointer fields on
// the update payloads distinguish "absent" from "set to zero value".

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Username string `json:"username"  validate:"required,min=1,max=50"`
	FullName string `json:"full_name" validate:"max=100"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshRequest is the payload for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserResponse is the public shape of a user account. Password material
// never appears here.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse converts a domain user to its API shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UpdateUserRequest is the sparse payload for PATCH /users/me.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"     validate:"omitempty,email"`
	Username *string `json:"username,omitempty"  validate:"omitempty,min=1,max=50"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Password *string `json:"password,omitempty"  validate:"omitempty,min=8,max=72"`
}

// CreateTaskRequest is the payload for POST /tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"                 validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	Priority    string     `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the sparse payload for PATCH /tasks/{id}.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty"  validate:"omitempty,max=2000"`
	Status      *string    `json:"status,omitempty"       validate:"omitempty,oneof=todo in_progress done archived"`
	Priority    *string    `json:"priority,omitempty"     validate:"omitempty,oneof=low medium high critical"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskResponse is the public shape of a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	IsCompleted bool       `json:"is_completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTaskResponse converts a domain task to its API shape.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		IsCompleted: task.IsCompleted,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// TaskListResponse is one page of a task listing.
type TaskListResponse struct {
	Items    []TaskResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Pages    int            `json:"pages"`
}

// NewTaskListResponse converts a domain page to its API shape.
func NewTaskListResponse(page *domain.TaskPage) TaskListResponse {
	items := make([]TaskResponse, 0, len(page.Items))
	for _, task := range page.Items {
		items = append(items, NewTaskResponse(task))
	}
	return TaskListResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Pages:    page.Pages,
	}
}
