// Package state holds the client-side copy of the todo list. Every mutation
// goes through the service first and is applied locally only after the
// service confirms it.
package state

import (
	"context"
	"errors"
	"sync"

	"todoapp/internal/client"
	"todoapp/internal/models"
)

// Service is the subset of the todo API the store depends on.
type Service interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, name string, checked bool) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Store is safe for concurrent use. Mutations against different todos may
// be in flight at once and complete in any order.
type Store struct {
	svc Service

	mu     sync.RWMutex
	todos  []models.Todo
	errMsg string
}

// New creates an empty store backed by svc.
func New(svc Service) *Store {
	return &Store{svc: svc}
}

// Todos returns a snapshot of the current list.
func (s *Store) Todos() []models.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Find returns the todo with the given id from local state.
func (s *Store) Find(id string) (models.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.todos[i], true
	}
	return models.Todo{}, false
}

// Err returns the current transient error message, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// DismissError clears the error message.
func (s *Store) DismissError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// Load replaces the list with the service's list. On failure the error is
// recorded and the last confirmed list is kept, which is empty before the
// first successful load.
func (s *Store) Load(ctx context.Context) error {
	todos, err := s.svc.ListTodos(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = describe(err, "Failed to load todos")
		return err
	}
	s.todos = todos
	return nil
}

// Add creates a todo and appends the confirmed record to the end of the list.
func (s *Store) Add(ctx context.Context, name string) error {
	todo, err := s.svc.CreateTodo(ctx, name, false)
	if err != nil {
		s.fail(err, "Failed to add todo")
		return err
	}

	s.mu.Lock()
	s.todos = append(s.todos, *todo)
	s.mu.Unlock()
	return nil
}

// Delete removes a todo once the service confirms. Until then it stays listed.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.svc.DeleteTodo(ctx, id); err != nil {
		s.fail(err, "Failed to delete todo")
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.todos = append(s.todos[:i], s.todos[i+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// Toggle inverts the checked state of a todo. An id that is not in local
// state is ignored.
func (s *Store) Toggle(ctx context.Context, id string) error {
	current, ok := s.Find(id)
	if !ok {
		return nil
	}

	updated, err := s.svc.UpdateTodo(ctx, id, models.TodoPatch{Checked: models.Some(!current.Checked)})
	if err != nil {
		s.fail(err, "Failed to toggle todo")
		return err
	}

	s.replace(*updated)
	return nil
}

// Rename sets a new name. The caller keeps its edit session open when an
// error is returned.
func (s *Store) Rename(ctx context.Context, id, name string) error {
	updated, err := s.svc.UpdateTodo(ctx, id, models.TodoPatch{Name: models.Some(name)})
	if err != nil {
		s.fail(err, "Failed to update todo")
		return err
	}

	s.replace(*updated)
	return nil
}

func (s *Store) replace(todo models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(todo.ID); i >= 0 {
		s.todos[i] = todo
	}
}

func (s *Store) fail(err error, fallback string) {
	s.mu.Lock()
	s.errMsg = describe(err, fallback)
	s.mu.Unlock()
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}

// describe turns err into a message fit for display.
func describe(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return fallback
	}
	return fallback + ": " + err.Error()
}
