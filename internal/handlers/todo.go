package handlers

import (
	"errors"
	"net/http"

	"todoapp/internal/api"
	"todoapp/internal/models"
	"todoapp/internal/store"
)

type createTodoRequest struct {
	Name    models.Optional[string] `json:"name"`
	Checked models.Optional[bool]   `json:"checked"`
}

// ListTodos returns every todo, newest first.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.ListTodos(r.Context())
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	h.respondJSON(w, http.StatusOK, api.OK(todos))
}

// CreateTodo creates a new todo.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTodoRequest
	if err := decodeBody(w, r, h.validator.create, &req); err != nil {
		h.respondFailure(w, r, err)
		return
	}

	todo := &models.Todo{Name: req.Name.Value}
	if checked, ok := req.Checked.Get(); ok {
		todo.Checked = checked
	}

	if err := todo.Validate(); err != nil {
		h.respondFailure(w, r, err)
		return
	}

	if err := h.store.CreateTodo(ctx, todo); err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Debug("todo created", "id", todo.ID)
	h.respondJSON(w, http.StatusCreated, api.OK(todo))
}

// UpdateTodo applies a partial update to an existing todo.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := parseID(r, "id")

	var patch models.TodoPatch
	if err := decodeBody(w, r, h.validator.update, &patch); err != nil {
		h.respondFailure(w, r, err)
		return
	}

	if err := patch.Validate(); err != nil {
		h.respondFailure(w, r, err)
		return
	}

	todo, err := h.store.UpdateTodo(ctx, id, patch)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, api.OK(todo))
}

// DeleteTodo permanently removes a todo.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := parseID(r, "id")

	if err := h.store.DeleteTodo(r.Context(), id); err != nil {
		h.respondFailure(w, r, err)
		return
	}

	h.logger.Debug("todo deleted", "id", id)
	h.respondJSON(w, http.StatusOK, api.Message("Todo deleted successfully"))
}

// respondFailure maps validation and not-found errors to their status codes;
// everything else is an internal error.
func (h *Handlers) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		h.respondError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, store.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Todo not found")
	default:
		h.respondServerError(w, r, err)
	}
}
