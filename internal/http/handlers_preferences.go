package httpx

import (
	"net/http"

	"github.com/stumbleable/jobs/internal/domain/model"
	"github.com/stumbleable/jobs/internal/service"
)

// PreferencesHandler serves per-user email preference reads and writes.
// The userId path segment accepts both internal UUIDs and external
// auth-provider ids.
type PreferencesHandler struct {
	prefs *service.PreferenceService
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(prefs *service.PreferenceService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// Get handles GET /api/preferences/{userId}.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.GetPreferences(r.Context(), r.PathValue("userId"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prefs)
}

// Update handles PUT /api/preferences/{userId}.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.EmailPreferences
	if !DecodeJSON(w, r, &req) {
		return
	}

	prefs, err := h.prefs.UpdatePreferences(r.Context(), r.PathValue("userId"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prefs)
}

// Unsubscribe handles POST /api/preferences/{userId}/unsubscribe: the
// absolute opt-out.
func (h *PreferencesHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.UnsubscribeAll(r.Context(), r.PathValue("userId"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prefs)
}
