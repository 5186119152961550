// Package client is a typed HTTP client for the todo API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todoapp/internal/api"
	"todoapp/internal/models"
)

// DefaultTimeout is used when New is given a zero timeout.
const DefaultTimeout = 10 * time.Second

// APIError is a failure reported by the server through the response envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a 400 from the server.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

// Client talks to the todo API rooted at baseURL (for example
// http://localhost:3000/api).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. A zero timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient creates a client using hc for transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// ListTodos fetches every todo, newest first.
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var resp api.Response[[]models.Todo]
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	todos, _ := resp.Data()
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// CreateTodo creates a todo and returns the stored record.
func (c *Client) CreateTodo(ctx context.Context, name string, checked bool) (*models.Todo, error) {
	body := map[string]any{"name": name, "checked": checked}
	var resp api.Response[models.Todo]
	if err := c.do(ctx, http.MethodPost, "/todos", body, &resp); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	todo, ok := resp.Data()
	if !ok {
		return nil, errors.New("create todo: response carried no todo")
	}
	return &todo, nil
}

// UpdateTodo sends only the fields set in patch and returns the stored record.
func (c *Client) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	var resp api.Response[models.Todo]
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), patch, &resp); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	todo, ok := resp.Data()
	if !ok {
		return nil, errors.New("update todo: response carried no todo")
	}
	return &todo, nil
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	var resp api.Response[struct{}]
	if err := c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, &resp); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// Health is the body of the server's health endpoint.
type Health struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// Health queries the server's health endpoint, which lives beside the API
// root rather than under it.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	u.Path = "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	defer res.Body.Close()

	var h Health
	if err := json.NewDecoder(res.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &h, nil
}

// envelope is satisfied by *api.Response[T].
type envelope interface {
	Success() bool
	Reason() string
}

func (c *Client) do(ctx context.Context, method, path string, body any, out envelope) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &APIError{Status: res.StatusCode, Message: fmt.Sprintf("unexpected response (HTTP %d)", res.StatusCode)}
	}
	if !out.Success() {
		msg := out.Reason()
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}
	return nil
}
