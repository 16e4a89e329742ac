package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/herald/internal/contact"
	"github.com/dmitrymomot/herald/internal/dispatch"
	"github.com/dmitrymomot/herald/internal/ledger"
	"github.com/dmitrymomot/herald/internal/template"
	"github.com/dmitrymomot/herald/pkg/mail"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps domain sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, template.ErrNotFound),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, dispatch.ErrEmptyList):
		return http.StatusNotFound
	case errors.Is(err, template.ErrMissingField),
		errors.Is(err, template.ErrInvalidFormat),
		errors.Is(err, template.ErrInvalidFrontmatter),
		errors.Is(err, contact.ErrMissingEmail):
		return http.StatusBadRequest
	case errors.Is(err, template.ErrDuplicateSlug):
		return http.StatusConflict
	case errors.Is(err, template.ErrNoBlobStorage),
		errors.Is(err, dispatch.ErrNoBlobStorage):
		return http.StatusServiceUnavailable
	case errors.Is(err, mail.ErrSendFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
