package httpx

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler serves the unauthenticated liveness endpoint.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health. Liveness reports ok even when the database
// ping fails; the body carries the dependency state for probes that care.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			resp["database"] = "unreachable"
		} else {
			resp["database"] = "ok"
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}
