package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"todoapp/internal/api"
	"todoapp/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store     store.Store
	logger    *log.Logger
	validator *bodyValidator
}

// New creates a new Handlers instance.
func New(s store.Store, logger *log.Logger) *Handlers {
	return &Handlers{
		store:     s,
		logger:    logger,
		validator: mustBodyValidator(),
	}
}

// parseID extracts a todo id from URL parameters.
func parseID(r *http.Request, param string) string {
	return chi.URLParam(r, param)
}

// respondJSON writes v as the JSON response body.
func (h *Handlers) respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "err", err)
	}
}

// respondError sends a failure envelope.
func (h *Handlers) respondError(w http.ResponseWriter, code int, message string) {
	h.respondJSON(w, code, api.Fail[struct{}](message))
}

// respondServerError logs err and sends a generic failure envelope.
func (h *Handlers) respondServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal server error", "method", r.Method, "path", r.URL.Path, "err", err)
	h.respondError(w, http.StatusInternalServerError, "internal server error")
}
