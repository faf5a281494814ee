package httpx

import (
	"net/http"

	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/service"
)

// TrustHandler serves trust score reads and the admin override.
type TrustHandler struct {
	trust *service.TrustService
}

// NewTrustHandler creates a new TrustHandler.
func NewTrustHandler(trust *service.TrustService) *TrustHandler {
	return &TrustHandler{trust: trust}
}

func trustScope(r *http.Request) (model.TrustScope, error) {
	scope := model.TrustScope(r.PathValue("scope"))
	if scope != model.ScopeDomain && scope != model.ScopeUser {
		return "", apperrors.Validationf("unknown trust scope %q", scope)
	}
	return scope, nil
}

// Get handles GET /api/trust/{scope}/{key}: the full stored score row
// annotated with its tier and effective value.
func (h *TrustHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, err := trustScope(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	score, err := h.trust.GetScore(r.Context(), scope, r.PathValue("key"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	effective := score.Effective()
	WriteJSON(w, http.StatusOK, map[string]any{
		"score":     score,
		"effective": effective,
		"tier":      model.TierFor(effective),
	})
}

// Decision handles GET /api/trust/{scope}/{key}/decision: the automated
// moderation outcome for a subject. Unscored subjects get review.
func (h *TrustHandler) Decision(w http.ResponseWriter, r *http.Request) {
	scope, err := trustScope(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	decision, err := h.trust.DecisionFor(r.Context(), scope, r.PathValue("key"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"decision": decision})
}

type overrideRequest struct {
	Override *float64 `json:"override"`
}

// SetOverride handles PUT /api/admin/trust/{scope}/{key}/override. A null
// override clears the pin.
func (h *TrustHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	scope, err := trustScope(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	var req overrideRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.trust.SetAdminOverride(r.Context(), scope, r.PathValue("key"), req.Override); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"scope": scope, "override": req.Override})
}
