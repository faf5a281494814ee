package httpx

import (
	"net/http"

	"github.com/stumbleable/jobs/internal/domain/model"
	"github.com/stumbleable/jobs/internal/service"
)

// SchedulerHandler serves the admin scheduler surface: registry listing,
// manual triggers, enable/disable, cron updates, history and stats.
type SchedulerHandler struct {
	registry *service.RegistryService
	ledger   LedgerReader
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(registry *service.RegistryService, ledger LedgerReader) *SchedulerHandler {
	return &SchedulerHandler{registry: registry, ledger: ledger}
}

// ListJobs handles GET /api/admin/scheduler/jobs.
func (h *SchedulerHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": h.registry.GetJobs(r.Context())})
}

// Trigger handles POST /api/admin/scheduler/jobs/{jobName}/trigger and
// echoes the handler's JobResult alongside the ledger row.
func (h *SchedulerHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var triggeredByUser *string
	if principal := PrincipalFromContext(r.Context()); principal != nil {
		triggeredByUser = &principal.Subject
	}

	execution, result, err := h.registry.ExecuteJob(
		r.Context(), r.PathValue("jobName"), model.TriggeredByManual, triggeredByUser)
	if err != nil && execution == nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"execution": execution,
		"result":    result,
	})
}

// Enable handles POST /api/admin/scheduler/jobs/{jobName}/enable.
func (h *SchedulerHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// Disable handles POST /api/admin/scheduler/jobs/{jobName}/disable.
func (h *SchedulerHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *SchedulerHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	jobName := r.PathValue("jobName")

	var err error
	if enabled {
		err = h.registry.EnableJob(r.Context(), jobName)
	} else {
		err = h.registry.DisableJob(r.Context(), jobName)
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobName": jobName, "enabled": enabled})
}

type updateCronRequest struct {
	CronExpression string `json:"cronExpression"`
}

// UpdateCron handles PUT /api/admin/scheduler/jobs/{jobName}/cron.
func (h *SchedulerHandler) UpdateCron(w http.ResponseWriter, r *http.Request) {
	var req updateCronRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	jobName := r.PathValue("jobName")
	if err := h.registry.UpdateCron(r.Context(), jobName, req.CronExpression); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"jobName":        jobName,
		"cronExpression": req.CronExpression,
	})
}

// History handles GET /api/admin/scheduler/jobs/{jobName}/history.
func (h *SchedulerHandler) History(w http.ResponseWriter, r *http.Request) {
	jobName := r.PathValue("jobName")
	if _, err := h.registry.GetJob(r.Context(), jobName); err != nil {
		WriteAppError(w, err)
		return
	}

	executions, err := h.ledger.List(r.Context(), model.ExecutionQuery{
		JobName: jobName,
		Limit:   queryInt(r, "limit"),
		Offset:  queryInt(r, "offset"),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"executions": executions})
}

// Stats handles GET /api/admin/scheduler/jobs/{jobName}/stats?days.
func (h *SchedulerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	jobName := r.PathValue("jobName")
	if _, err := h.registry.GetJob(r.Context(), jobName); err != nil {
		WriteAppError(w, err)
		return
	}

	stats, err := h.ledger.Stats(r.Context(), jobName, queryInt(r, "days"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
