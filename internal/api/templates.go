package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/herald/internal/template"
)

const maxImportSize = 1 << 20  // 1MB template file
const maxUploadSize = 10 << 20 // 10MB attachment

const attachmentURLTTL = 15 * time.Minute

type templateRequest struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Slug     string `json:"slug,omitempty"`
	Format   string `json:"format,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

func (h *Handlers) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	tmpl, err := h.templates.Create(r.Context(), template.CreateParams{
		Name:     req.Name,
		Subject:  req.Subject,
		Content:  req.Content,
		Category: req.Category,
		Slug:     req.Slug,
		Format:   template.Format(req.Format),
		Active:   active,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *Handlers) getTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid template id"})
		return
	}

	tmpl, err := h.templates.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *Handlers) listTemplates(w http.ResponseWriter, r *http.Request) {
	f := template.Filter{
		Category:    r.URL.Query().Get("category"),
		Slug:        r.URL.Query().Get("slug"),
		Placeholder: r.URL.Query().Get("placeholder"),
	}
	if v := r.URL.Query().Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid active filter"})
			return
		}
		f.Active = &active
	}

	templates, err := h.templates.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *Handlers) updateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid template id"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Subject  *string `json:"subject"`
		Content  *string `json:"content"`
		Category *string `json:"category"`
		Active   *bool   `json:"active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	tmpl, err := h.templates.Update(r.Context(), id, template.UpdateParams{
		Name:     req.Name,
		Subject:  req.Subject,
		Content:  req.Content,
		Category: req.Category,
		Active:   req.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *Handlers) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid template id"})
		return
	}

	if err := h.templates.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) importTemplate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	content, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}

	tmpl, err := h.templates.Import(r.Context(), content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *Handlers) addAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid template id"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file field"})
		return
	}
	defer file.Close()

	tmpl, err := h.templates.AddAttachment(
		r.Context(), id,
		header.Filename,
		header.Header.Get("Content-Type"),
		file, header.Size,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *Handlers) listAttachments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid template id"})
		return
	}

	links, err := h.templates.AttachmentLinks(r.Context(), id, attachmentURLTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attachments": links})
}
