package store

import (
	"context"
	"errors"

	"todoapp/internal/models"
)

// ErrNotFound is returned when no todo matches the requested id.
var ErrNotFound = errors.New("todo not found")

// Store defines the interface for todo persistence.
type Store interface {
	// Todo operations
	ListTodos(ctx context.Context) ([]models.Todo, error)
	GetTodo(ctx context.Context, id string) (*models.Todo, error)
	CreateTodo(ctx context.Context, todo *models.Todo) error
	UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
