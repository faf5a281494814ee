package httpx

import (
	"net/http"

	"github.com/stumbleable/jobs/internal/domain/model"
	"github.com/stumbleable/jobs/internal/service"
)

// QueueHandler serves email enqueueing and queue introspection.
type QueueHandler struct {
	queue *service.EmailQueueService
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(queue *service.EmailQueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// Send handles POST /api/send: validates and enqueues one email.
func (h *QueueHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.EnqueueEmailRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.queue.Enqueue(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// Status handles GET /api/queue/status.
func (h *QueueHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.queue.QueueStatus(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// Items handles GET /api/queue/items?status&type&limit&offset.
func (h *QueueHandler) Items(w http.ResponseWriter, r *http.Request) {
	items, err := h.queue.ListItems(r.Context(), model.QueueItemQuery{
		Status:    model.EmailStatus(r.URL.Query().Get("status")),
		EmailType: model.EmailType(r.URL.Query().Get("type")),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Retry handles POST /api/queue/retry/{id}: resets a failed item to pending.
func (h *QueueHandler) Retry(w http.ResponseWriter, r *http.Request) {
	item, err := h.queue.RetryEmail(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/queue/{id}.
func (h *QueueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.queue.DeleteEmail(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
