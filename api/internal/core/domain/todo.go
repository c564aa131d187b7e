package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories and services instead of driver-specific errors.
var ErrNotFound = errors.New("resource not found")

// Todo is the single record type served by the API.
type Todo struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateTodoRequest is a partial update: nil fields are left untouched.
type UpdateTodoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

// NewTodo builds an incomplete todo with a fresh ID and matching timestamps.
func NewTodo(title string, description *string) *Todo {
	now := time.Now().UTC()
	return &Todo{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges a partial update. UpdatedAt always advances, even for an empty update.
func (t *Todo) Apply(req UpdateTodoRequest) {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		d := *req.Description
		t.Description = &d
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	t.UpdatedAt = time.Now().UTC()
}

// TodoRepository defines the persistence contract.
type TodoRepository interface {
	// FindAll returns every todo, newest first.
	FindAll(ctx context.Context) ([]Todo, error)

	// FindByID returns ErrNotFound when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*Todo, error)

	Create(ctx context.Context, todo *Todo) error
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TodoService is the use-case layer consumed by the HTTP handlers.
type TodoService interface {
	ListTodos(ctx context.Context) ([]Todo, error)
	GetTodo(ctx context.Context, id uuid.UUID) (*Todo, error)
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*Todo, error)
	UpdateTodo(ctx context.Context, id uuid.UUID, req UpdateTodoRequest) (*Todo, error)
	DeleteTodo(ctx context.Context, id uuid.UUID) error
}
