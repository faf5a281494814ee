package httpx

import (
	"net/http"
	"strconv"

	"github.com/stumbleable/jobs/internal/domain/model"
	"github.com/stumbleable/jobs/internal/service"
)

// JobsHandler serves manual execution and ledger history.
type JobsHandler struct {
	registry *service.RegistryService
	ledger   LedgerReader
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(registry *service.RegistryService, ledger LedgerReader) *JobsHandler {
	return &JobsHandler{registry: registry, ledger: ledger}
}

type triggerRequest struct {
	JobType     string `json:"jobType"`
	TriggeredBy string `json:"triggeredBy"`
}

// Trigger handles POST /api/jobs/trigger. The body names the job to run;
// the response carries the ledger id and terminal status.
func (h *JobsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	var triggeredByUser *string
	if principal := PrincipalFromContext(r.Context()); principal != nil {
		triggeredByUser = &principal.Subject
	} else if req.TriggeredBy != "" {
		triggeredByUser = &req.TriggeredBy
	}

	execution, _, err := h.registry.ExecuteJob(
		r.Context(), req.JobType, model.TriggeredByManual, triggeredByUser)
	if err != nil && execution == nil {
		WriteAppError(w, err)
		return
	}

	resp := map[string]any{"status": string(model.ExecutionStatusFailed)}
	if execution != nil {
		resp["jobId"] = execution.ID
		resp["status"] = string(execution.Status)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetExecution handles GET /api/jobs/{jobId}.
func (h *JobsHandler) GetExecution(w http.ResponseWriter, r *http.Request) {
	execution, err := h.ledger.GetByID(r.Context(), r.PathValue("jobId"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, execution)
}

// ListExecutions handles GET /api/jobs?type&status&limit&offset.
func (h *JobsHandler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	q := model.ExecutionQuery{
		JobType: model.JobType(r.URL.Query().Get("type")),
		Status:  model.ExecutionStatus(r.URL.Query().Get("status")),
		Limit:   queryInt(r, "limit"),
		Offset:  queryInt(r, "offset"),
	}

	executions, err := h.ledger.List(r.Context(), q)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"executions": executions})
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
