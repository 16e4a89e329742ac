package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/herald/internal/jobs"
	"github.com/dmitrymomot/herald/pkg/queue"
)

type previewRequest struct {
	TemplateID uuid.UUID         `json:"template_id"`
	Bindings   map[string]string `json:"bindings"`
}

func (h *Handlers) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	result, err := h.engine.Preview(r.Context(), req.TemplateID, req.Bindings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type sendRequest struct {
	TemplateID uuid.UUID         `json:"template_id"`
	Email      string            `json:"email"`
	Bindings   map[string]string `json:"bindings"`
}

func (h *Handlers) sendIndividual(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email is required"})
		return
	}

	receipt, err := h.engine.SendIndividual(r.Context(), req.TemplateID, req.Email, req.Bindings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type bulkRequest struct {
	TemplateID  uuid.UUID         `json:"template_id"`
	ListName    string            `json:"list_name"`
	Bindings    map[string]string `json:"bindings"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
}

func (h *Handlers) sendBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ListName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "list_name is required"})
		return
	}

	result, err := h.engine.SendBulk(r.Context(), req.TemplateID, req.ListName, req.Bindings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// enqueueCampaign hands the bulk send to the queue worker. The job runs
// with a single attempt: a re-run would re-send to recipients that
// already succeeded. Deduplicated per template+list over a short window.
func (h *Handlers) enqueueCampaign(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "queue not configured"})
		return
	}

	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ListName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "list_name is required"})
		return
	}

	opts := []queue.EnqueueOption{
		queue.MaxAttempts(1),
		queue.UniqueFor(time.Minute),
		queue.UniqueKey(req.TemplateID.String() + ":" + req.ListName),
	}
	if req.ScheduledAt != nil {
		opts = append(opts, queue.ScheduledAt(*req.ScheduledAt))
	}

	err := h.queue.Enqueue(r.Context(), jobs.TaskCampaignDispatch, jobs.CampaignPayload{
		TemplateID: req.TemplateID,
		ListName:   req.ListName,
		Bindings:   req.Bindings,
	}, opts...)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
