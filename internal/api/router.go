package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/herald/internal/contact"
	"github.com/dmitrymomot/herald/internal/dispatch"
	"github.com/dmitrymomot/herald/internal/stats"
	"github.com/dmitrymomot/herald/internal/template"
	"github.com/dmitrymomot/herald/pkg/queue"
)

// Enqueuer dispatches queue jobs from the API process.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...queue.EnqueueOption) error
}

// Handlers bundles the services the API exposes.
type Handlers struct {
	templates *template.Service
	contacts  *contact.Service
	engine    *dispatch.Engine
	stats     *stats.Service
	queue     Enqueuer
	log       *slog.Logger
}

// NewHandlers creates the API handler set. The enqueuer may be nil, in
// which case async campaign endpoints respond 503.
func NewHandlers(
	templates *template.Service,
	contacts *contact.Service,
	engine *dispatch.Engine,
	statsSvc *stats.Service,
	enqueuer Enqueuer,
	log *slog.Logger,
) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		templates: templates,
		contacts:  contacts,
		engine:    engine,
		stats:     statsSvc,
		queue:     enqueuer,
		log:       log,
	}
}

// Router assembles the HTTP API.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.listTemplates)
		r.Post("/", h.createTemplate)
		r.Post("/import", h.importTemplate)
		r.Get("/{id}", h.getTemplate)
		r.Patch("/{id}", h.updateTemplate)
		r.Delete("/{id}", h.deleteTemplate)
		r.Post("/{id}/attachments", h.addAttachment)
		r.Get("/{id}/attachments", h.listAttachments)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", h.listContacts)
		r.Get("/{id}", h.getContact)
		r.Delete("/{id}", h.deleteContact)
		r.Get("/{id}/summary", h.sendSummary)
	})

	r.Post("/webhooks/contacts", h.ingestContact)

	r.Route("/dispatch", func(r chi.Router) {
		r.Post("/preview", h.preview)
		r.Post("/send", h.sendIndividual)
		r.Post("/bulk", h.sendBulk)
		r.Post("/campaigns", h.enqueueCampaign)
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/", h.overview)
		r.Get("/lists/{name}", h.listStats)
		r.Get("/templates/{id}", h.templateStats)
	})

	return r
}

// requestLogger logs each request with method, path, status, and timing.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
