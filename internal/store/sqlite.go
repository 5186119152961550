package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"todoapp/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a new SQLite store with the given database path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps ":memory:"
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const todoColumns = `id, name, checked, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner, todo *models.Todo) error {
	return row.Scan(
		&todo.ID,
		&todo.Name,
		&todo.Checked,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
}

// CreateTodo persists a new todo, assigning its id and timestamps.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	now := s.now()
	todo.ID = uuid.NewString()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, name, checked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, todo.ID, todo.Name, todo.Checked, now, now)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetTodo retrieves a todo by id.
func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	return getTodo(ctx, s.db, id)
}

func getTodo(ctx context.Context, q rowQuerier, id string) (*models.Todo, error) {
	todo := &models.Todo{}
	row := q.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	if err := scanTodo(row, todo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

// ListTodos retrieves all todos, newest first.
func (s *SQLiteStore) ListTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos ORDER BY created_at DESC, seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		if err := scanTodo(rows, &todo); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

// UpdateTodo applies patch to the todo with the given id and returns the
// stored result. Fields not set in patch are left untouched.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	todo, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(todo)
	todo.UpdatedAt = s.now()

	_, err = tx.ExecContext(ctx, `
		UPDATE todos SET name = ?, checked = ?, updated_at = ? WHERE id = ?
	`, todo.Name, todo.Checked, todo.UpdatedAt, todo.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit todo update: %w", err)
	}

	return todo, nil
}

// DeleteTodo permanently removes a todo by id.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}

	return nil
}
