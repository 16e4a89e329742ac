package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/herald/internal/contact"
)

func (h *Handlers) listContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	contacts, total, err := h.contacts.List(r.Context(), contact.Filter{
		City:     q.Get("city"),
		ListName: q.Get("list"),
		Search:   q.Get("search"),
	}, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"total":    total,
	})
}

func (h *Handlers) getContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid contact id"})
		return
	}

	c, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid contact id"})
		return
	}

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type ingestRequest struct {
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	SecondEmail   string `json:"second_email"`
	Phone         string `json:"phone"`
	CompanyPhone  string `json:"company_phone"`
	URL           string `json:"url"`
	JobTitle      string `json:"job_title"`
	CompanyName   string `json:"company_name"`
	CompanyDomain string `json:"company_domain"`
	CompanyID     string `json:"company_id"`
	City          string `json:"city"`
	LinkedinID    string `json:"linkedin_id"`
	ListName      string `json:"list_name"`
}

func (h *Handlers) ingestContact(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	c, err := h.contacts.Ingest(r.Context(), contact.IngestParams{
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		Email:         req.Email,
		SecondEmail:   req.SecondEmail,
		Phone:         req.Phone,
		CompanyPhone:  req.CompanyPhone,
		URL:           req.URL,
		JobTitle:      req.JobTitle,
		CompanyName:   req.CompanyName,
		CompanyDomain: req.CompanyDomain,
		CompanyID:     req.CompanyID,
		City:          req.City,
		LinkedinID:    req.LinkedinID,
		ListName:      req.ListName,
	})
	if errors.Is(err, contact.ErrFilteredOut) {
		// The webhook caller is not at fault; acknowledge and drop.
		writeJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) sendSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid contact id"})
		return
	}

	summary, err := h.engine.SendSummary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": summary})
}
