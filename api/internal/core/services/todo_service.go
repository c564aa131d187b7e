package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"todoapp/api/internal/core/domain"
)

type TodoService struct {
	repo   domain.TodoRepository
	logger *slog.Logger
}

var _ domain.TodoService = (*TodoService)(nil)

func NewTodoService(repo domain.TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{
		repo:   repo,
		logger: logger,
	}
}

func (s *TodoService) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

func (s *TodoService) GetTodo(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TodoService) CreateTodo(ctx context.Context, req domain.CreateTodoRequest) (*domain.Todo, error) {
	todo := domain.NewTodo(req.Title, req.Description)

	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("Todo created", slog.String("todo_id", todo.ID.String()))
	return todo, nil
}

// UpdateTodo loads the current row, merges the partial update, and writes it back.
func (s *TodoService) UpdateTodo(ctx context.Context, id uuid.UUID, req domain.UpdateTodoRequest) (*domain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	todo.Apply(req)

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// DeleteTodo returns domain.ErrNotFound when the todo does not exist.
func (s *TodoService) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.logger.Info("Todo deleted", slog.String("todo_id", id.String()))
	return nil
}
