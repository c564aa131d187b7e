package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"todoapp/api/internal/core/domain"
)

// TodoRepository implements domain.TodoRepository on PostgreSQL.
type TodoRepository struct {
	db *sqlx.DB
}

var _ domain.TodoRepository = (*TodoRepository)(nil)

func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, title, description, completed, created_at, updated_at`

func (r *TodoRepository) FindAll(ctx context.Context) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &todos, query); err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	var todo domain.Todo
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	if err := r.db.GetContext(ctx, &todo, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := `
		INSERT INTO todos (id, title, description, completed, created_at, updated_at)
		VALUES (:id, :title, :description, :completed, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, todo); err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	query := `
		UPDATE todos
		SET title = :title, description = :description, completed = :completed, updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, todo)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return requireRow(res)
}

func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return requireRow(res)
}

// requireRow maps "zero rows affected" to domain.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
