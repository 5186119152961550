package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"todoapp/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// steppingClock returns a clock that advances by one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func TestCreateTodo(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	todo := &models.Todo{Name: "Buy milk"}
	if err := store.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	if todo.ID == "" {
		t.Error("expected todo ID to be set")
	}
	if todo.Checked {
		t.Error("expected checked to default to false")
	}
	if todo.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if !todo.UpdatedAt.Equal(todo.CreatedAt) {
		t.Error("expected updated_at to equal created_at on creation")
	}
}

func TestCreateTodo_GeneratesUniqueIDs(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		todo := &models.Todo{Name: "Task"}
		if err := store.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
		if seen[todo.ID] {
			t.Fatalf("duplicate id %s", todo.ID)
		}
		seen[todo.ID] = true
	}
}

func TestGetTodo(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	todo := &models.Todo{Name: "Walk dog", Checked: true}
	store.CreateTodo(ctx, todo)

	got, err := store.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}

	if got.Name != todo.Name {
		t.Errorf("expected name %q, got %q", todo.Name, got.Name)
	}
	if !got.Checked {
		t.Error("expected checked to be true")
	}
	if !got.CreatedAt.Equal(todo.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", todo.CreatedAt, got.CreatedAt)
	}
}

func TestGetTodo_NotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.GetTodo(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListTodos_Empty(t *testing.T) {
	store := setupTestDB(t)

	got, err := store.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestListTodos_NewestFirst(t *testing.T) {
	store := setupTestDB(t)
	store.now = steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if err := store.CreateTodo(ctx, &models.Todo{Name: name}); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
	}

	got, err := store.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(got))
	}

	expectedOrder := []string{"Third", "Second", "First"}
	for i, name := range expectedOrder {
		if got[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestListTodos_SameTimestampKeepsInsertionOrder(t *testing.T) {
	store := setupTestDB(t)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		store.CreateTodo(ctx, &models.Todo{Name: name})
	}

	got, _ := store.ListTodos(ctx)
	if len(got) != 3 || got[0].Name != "c" || got[2].Name != "a" {
		t.Errorf("expected newest insert first, got %+v", got)
	}
}

func TestUpdateTodo_PartialFields(t *testing.T) {
	store := setupTestDB(t)
	store.now = steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	todo := &models.Todo{Name: "Buy milk"}
	store.CreateTodo(ctx, todo)

	updated, err := store.UpdateTodo(ctx, todo.ID, models.TodoPatch{Checked: models.Some(true)})
	if err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}
	if !updated.Checked {
		t.Error("expected checked to be true")
	}
	if updated.Name != "Buy milk" {
		t.Errorf("expected name unchanged, got %q", updated.Name)
	}
	if !updated.UpdatedAt.After(todo.UpdatedAt) {
		t.Error("expected updated_at to advance")
	}
	if !updated.CreatedAt.Equal(todo.CreatedAt) {
		t.Error("expected created_at to be unchanged")
	}

	renamed, err := store.UpdateTodo(ctx, todo.ID, models.TodoPatch{Name: models.Some("Buy oat milk")})
	if err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}
	if renamed.Name != "Buy oat milk" {
		t.Errorf("expected new name, got %q", renamed.Name)
	}
	if !renamed.Checked {
		t.Error("expected checked to remain true")
	}

	got, _ := store.GetTodo(ctx, todo.ID)
	if got.Name != "Buy oat milk" || !got.Checked {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	store.CreateTodo(ctx, &models.Todo{Name: "Keep me"})

	_, err := store.UpdateTodo(ctx, "missing", models.TodoPatch{Checked: models.Some(true)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	todos, _ := store.ListTodos(ctx)
	if len(todos) != 1 || todos[0].Checked {
		t.Errorf("collection changed after failed update: %+v", todos)
	}
}

func TestUpdateTodo_ToggleTwiceRoundTrips(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	todo := &models.Todo{Name: "Round trip"}
	store.CreateTodo(ctx, todo)

	current := todo
	for i := 0; i < 2; i++ {
		next, err := store.UpdateTodo(ctx, todo.ID, models.TodoPatch{Checked: models.Some(!current.Checked)})
		if err != nil {
			t.Fatalf("UpdateTodo failed: %v", err)
		}
		current = next
	}

	if current.Checked != todo.Checked || current.Name != todo.Name {
		t.Errorf("expected original state, got %+v", current)
	}
}

func TestUpdateTodo_ConcurrentWritesDoNotCorrupt(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	todo := &models.Todo{Name: "Contended"}
	store.CreateTodo(ctx, todo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.UpdateTodo(ctx, todo.ID, models.TodoPatch{Checked: models.Some(i%2 == 0)}); err != nil {
				t.Errorf("UpdateTodo failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := store.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}
	if got.Name != "Contended" {
		t.Errorf("expected name intact, got %q", got.Name)
	}
}

func TestDeleteTodo(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	todo := &models.Todo{Name: "Delete me"}
	store.CreateTodo(ctx, todo)

	if err := store.DeleteTodo(ctx, todo.ID); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	todos, _ := store.ListTodos(ctx)
	if len(todos) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(todos))
	}

	if err := store.DeleteTodo(ctx, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestNewSQLiteStore_ReopenKeepsDataAndMigrationsOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "todos.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	todo := &models.Todo{Name: "Persisted"}
	if err := first.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	second, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	t.Cleanup(func() { second.Close() })

	got, err := second.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("expected todo to persist: %v", err)
	}
	if got.Name != "Persisted" {
		t.Fatalf("expected Persisted, got %s", got.Name)
	}

	var migrationCount int
	if err := second.db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&migrationCount); err != nil {
		t.Fatalf("failed to count schema migrations: %v", err)
	}
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations failed: %v", err)
	}
	if migrationCount != len(migrations) {
		t.Fatalf("expected %d applied migrations, got %d", len(migrations), migrationCount)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db file to exist: %v", err)
	}
}

func TestPing(t *testing.T) {
	store := setupTestDB(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	store.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("expected Ping to fail after Close")
	}
}

func TestParseMigrationFilename(t *testing.T) {
	version, name, err := parseMigrationFilename("001_create_todos.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 1 || name != "create_todos" {
		t.Errorf("got version %d name %q", version, name)
	}

	if _, _, err := parseMigrationFilename("create_todos.sql"); err == nil {
		t.Error("expected error for filename without version")
	}
}
