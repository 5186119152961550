package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapp/internal/client"
	"todoapp/internal/models"
	"todoapp/internal/state"
)

type fakeService struct {
	mu       sync.Mutex
	order    []string
	todos    map[string]models.Todo
	seq      int
	failWith error
}

func newFakeService(names ...string) *fakeService {
	f := &fakeService{todos: make(map[string]models.Todo)}
	for _, name := range names {
		f.insert(name)
	}
	return f
}

func (f *fakeService) insert(name string) models.Todo {
	f.seq++
	todo := models.Todo{ID: fmt.Sprintf("id-%d", f.seq), Name: name}
	f.todos[todo.ID] = todo
	f.order = append([]string{todo.ID}, f.order...)
	return todo
}

func (f *fakeService) ListTodos(ctx context.Context) ([]models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.Todo
	for _, id := range f.order {
		if todo, ok := f.todos[id]; ok {
			out = append(out, todo)
		}
	}
	return out, nil
}

func (f *fakeService) CreateTodo(ctx context.Context, name string, checked bool) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, err := models.ValidateName(name); err != nil {
		return nil, &client.APIError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	todo := f.insert(name)
	return &todo, nil
}

func (f *fakeService) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if err := patch.Validate(); err != nil {
		return nil, &client.APIError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	todo, ok := f.todos[id]
	if !ok {
		return nil, &client.APIError{Status: http.StatusNotFound, Message: "Todo not found"}
	}
	patch.Apply(&todo)
	f.todos[id] = todo
	return &todo, nil
}

func (f *fakeService) DeleteTodo(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.todos[id]; !ok {
		return &client.APIError{Status: http.StatusNotFound, Message: "Todo not found"}
	}
	delete(f.todos, id)
	return nil
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(keyMsg(k))
	return updated.(Model), cmd
}

// run executes a command produced by the model and feeds its message back.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func started(t *testing.T, svc *fakeService) (Model, *state.Store) {
	t.Helper()
	store := state.New(svc)
	m := New(store, Options{})
	return run(t, m, m.Init()), store
}

func TestModel_LoadingThenList(t *testing.T) {
	store := state.New(newFakeService("Buy milk", "Walk dog"))
	m := New(store, Options{})

	assert.Contains(t, m.View(), "Loading todos...")

	m = run(t, m, m.Init())

	assert.False(t, m.view.loading)
	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Walk dog")
	assert.NotContains(t, view, "Loading")
}

func TestModel_LoadFailureShowsError(t *testing.T) {
	svc := newFakeService("Buy milk")
	svc.failWith = errors.New("connection refused")

	m, store := started(t, svc)

	assert.Empty(t, store.Todos())
	assert.Contains(t, m.View(), "connection refused")
}

func TestModel_ReloadFailureKeepsRows(t *testing.T) {
	svc := newFakeService("Buy milk", "Walk dog")
	m, store := started(t, svc)
	svc.failWith = errors.New("connection refused")

	m, cmd := press(t, m, "r")
	assert.True(t, m.view.loading)
	m = run(t, m, cmd)

	assert.False(t, m.view.loading)
	assert.Len(t, store.Todos(), 2)
	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Walk dog")
	assert.Contains(t, view, "Failed to load todos: connection refused")
}

func TestModel_ReloadShowsNewTodos(t *testing.T) {
	svc := newFakeService("Buy milk")
	m, _ := started(t, svc)
	svc.insert("Walk dog")

	m, cmd := press(t, m, "r")
	m = run(t, m, cmd)

	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Walk dog")
}

func TestModel_AddClearsInputAndAppendsAfterConfirmation(t *testing.T) {
	m, store := started(t, newFakeService("a", "b"))

	m, _ = press(t, m, "a")
	require.True(t, m.view.adding)
	m.input.SetValue("Buy milk")

	m, cmd := press(t, m, "enter")
	assert.False(t, m.view.adding)
	assert.Empty(t, m.input.Value())
	assert.Len(t, store.Todos(), 2, "nothing is inserted before the service confirms")

	m = run(t, m, cmd)
	todos := store.Todos()
	require.Len(t, todos, 3)
	assert.Equal(t, "Buy milk", todos[2].Name)
	assert.Len(t, m.list.Items(), 3)
}

func TestModel_AddFailureShowsServerMessage(t *testing.T) {
	m, store := started(t, newFakeService())

	m, _ = press(t, m, "a")
	m.input.SetValue("   ")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	assert.Empty(t, store.Todos())
	assert.Contains(t, m.View(), "Todo name is required")

	m, _ = press(t, m, "x")
	assert.Empty(t, store.Err())
	assert.NotContains(t, m.View(), "Todo name is required")
}

func TestModel_AddEscCancels(t *testing.T) {
	m, _ := started(t, newFakeService())

	m, _ = press(t, m, "a")
	m.input.SetValue("draft")
	m, cmd := press(t, m, "esc")

	assert.Nil(t, cmd)
	assert.False(t, m.view.adding)
	assert.Empty(t, m.input.Value())
}

func TestModel_ToggleSelected(t *testing.T) {
	m, store := started(t, newFakeService("a"))

	m, cmd := press(t, m, "space")
	m = run(t, m, cmd)

	todo, ok := store.Find("id-1")
	require.True(t, ok)
	assert.True(t, todo.Checked)
	assert.True(t, m.list.SelectedItem().(todoItem).todo.Checked)
}

func TestModel_DeleteSelected(t *testing.T) {
	m, store := started(t, newFakeService("a", "b"))

	m, cmd := press(t, m, "d")
	assert.Len(t, store.Todos(), 2, "item stays visible until confirmed")

	m = run(t, m, cmd)
	assert.Len(t, store.Todos(), 1)
	assert.Len(t, m.list.Items(), 1)
}

func TestModel_EditSuccessClosesAndRestoresFocus(t *testing.T) {
	m, store := started(t, newFakeService("a", "b", "c"))
	m.list.Select(1)
	target := m.list.SelectedItem().(todoItem).todo

	m, _ = press(t, m, "e")
	require.NotNil(t, m.view.edit)
	assert.Equal(t, target.Name, m.input.Value())

	m.input.SetValue("renamed")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.view.edit.pending)

	m = run(t, m, cmd)

	assert.Nil(t, m.view.edit)
	assert.Equal(t, 1, m.list.Index())
	todo, _ := store.Find(target.ID)
	assert.Equal(t, "renamed", todo.Name)
}

func TestModel_EditFailureStaysOpen(t *testing.T) {
	m, store := started(t, newFakeService("a"))

	m, _ = press(t, m, "e")
	m.input.SetValue("")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	require.NotNil(t, m.view.edit)
	assert.False(t, m.view.edit.pending)
	assert.Equal(t, "Todo name is required", store.Err())
	todo, _ := store.Find("id-1")
	assert.Equal(t, "a", todo.Name)
}

func TestModel_OneEditSessionAtATime(t *testing.T) {
	m, _ := started(t, newFakeService("a", "b"))

	m, _ = press(t, m, "e")
	first := m.view.edit.id

	m, _ = press(t, m, "e")
	assert.Equal(t, first, m.view.edit.id)
	assert.Equal(t, "be", m.input.Value(), "keys go to the open form")
}

func TestModel_EditEscRestoresFocus(t *testing.T) {
	m, _ := started(t, newFakeService("a", "b", "c"))
	m.list.Select(2)

	m, _ = press(t, m, "e")
	m, cmd := press(t, m, "esc")

	assert.Nil(t, cmd)
	assert.Nil(t, m.view.edit)
	assert.Equal(t, 2, m.list.Index())
}

func TestModel_Quit(t *testing.T) {
	m, _ := started(t, newFakeService())

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
