package handlers

import (
	"context"
	"net/http"
	"time"
)

// pingTimeout bounds the storage check made by the health endpoint.
const pingTimeout = 2 * time.Second

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// Health reports that the process is up and whether storage is reachable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	status := HealthStatus{
		Status:   "ok",
		Message:  "Server is running!",
		Database: "connected",
	}
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("storage ping failed", "err", err)
		status.Database = "disconnected"
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Index describes the available endpoints.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": "Todo API Server",
		"endpoints": map[string]string{
			"health": "/health",
			"todos":  "/api/todos",
		},
	})
}
