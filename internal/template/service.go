package template

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrymomot/herald/pkg/blob"
	"github.com/dmitrymomot/herald/pkg/cache"
	"github.com/dmitrymomot/herald/pkg/slug"
)

var (
	emailPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

// htmlPolicy allows the markup commonly used in email bodies while
// stripping scripts, event handlers, and javascript: URLs.
func htmlPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowImages()
		p.AllowTables()
		p.AllowAttrs("style").Globally()
		emailPolicy = p
	})
	return emailPolicy
}

// Service implements template operations on top of a Store, with an
// optional read-through cache on GetByID and optional blob storage for
// attachments.
type Service struct {
	store Store
	cache cache.Cache[Template]
	blobs blob.Storage
	log   *slog.Logger

	cacheTTL time.Duration
}

// Option configures the service.
type Option func(*Service)

// WithCache enables a read-through cache on GetByID.
func WithCache(c cache.Cache[Template], ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithBlobStorage enables attachment upload and delete.
func WithBlobStorage(b blob.Storage) Option {
	return func(s *Service) { s.blobs = b }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a template service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams holds fields for template creation. Slug is derived from
// Name when empty; Format defaults to html.
type CreateParams struct {
	Name     string
	Subject  string
	Content  string
	Category string
	Slug     string
	Format   Format
	Active   bool
}

// Create validates and persists a new template, deriving its slug and
// declared placeholders.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Template, error) {
	if p.Name == "" || p.Subject == "" || p.Content == "" || p.Category == "" {
		return nil, ErrMissingField
	}

	format := p.Format
	if format == "" {
		format = FormatHTML
	}
	if format != FormatHTML && format != FormatMarkdown {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}

	content := p.Content
	if format == FormatHTML {
		content = htmlPolicy().Sanitize(content)
	}

	templateSlug := p.Slug
	if templateSlug == "" {
		templateSlug = slug.Make(p.Name)
	}

	now := time.Now()
	t := &Template{
		ID:           uuid.New(),
		Name:         p.Name,
		Slug:         templateSlug,
		Subject:      p.Subject,
		Content:      content,
		Category:     p.Category,
		Format:       format,
		Active:       p.Active,
		Placeholders: computePlaceholders(p.Subject, content),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "template created",
		slog.String("template_id", t.ID.String()),
		slog.String("slug", t.Slug),
	)

	return t, nil
}

// UpdateParams holds optional field changes. Nil fields stay unchanged.
type UpdateParams struct {
	Name     *string
	Subject  *string
	Content  *string
	Category *string
	Active   *bool
}

// Update applies changed fields. When subject or content changes, the
// declared placeholders are recomputed against the merged result.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*Template, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	recompute := false
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Subject != nil {
		t.Subject = *p.Subject
		recompute = true
	}
	if p.Content != nil {
		content := *p.Content
		if t.Format == FormatHTML {
			content = htmlPolicy().Sanitize(content)
		}
		t.Content = content
		recompute = true
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Active != nil {
		t.Active = *p.Active
	}

	if recompute {
		t.Placeholders = computePlaceholders(t.Subject, t.Content)
	}
	t.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return t, nil
}

// GetByID returns a template, served from cache when configured.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	if s.cache == nil {
		return s.store.GetByID(ctx, id)
	}

	t, err := cache.GetOrSet(ctx, s.cache, id.String(), func(ctx context.Context) (Template, time.Duration, error) {
		found, err := s.store.GetByID(ctx, id)
		if err != nil {
			return Template{}, 0, err
		}
		return *found, s.cacheTTL, nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns templates matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Template, error) {
	return s.store.List(ctx, f)
}

// Delete removes a template and its cache entry. Attachment blobs are
// removed best-effort.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	if s.blobs != nil {
		for _, a := range t.Attachments {
			if err := s.blobs.Delete(ctx, a.Key); err != nil {
				s.log.WarnContext(ctx, "failed to delete attachment blob",
					slog.String("key", a.Key),
					slog.Any("error", err),
				)
			}
		}
	}

	return nil
}

// AddAttachment uploads a file to blob storage and records it on the
// template.
func (s *Service) AddAttachment(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader, size int64) (*Template, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobStorage
	}

	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := blob.AttachmentKey(id, filename)
	if err := s.blobs.Put(ctx, key, contentType, r, size); err != nil {
		return nil, err
	}

	t.Attachments = append(t.Attachments, Attachment{
		Filename:    filename,
		ContentType: contentType,
		Key:         key,
		Size:        size,
	})
	t.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return t, nil
}

// AttachmentLink pairs an attachment with a time-limited download URL.
type AttachmentLink struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// AttachmentLinks returns signed download URLs for the template's
// attachments, valid for the given duration.
func (s *Service) AttachmentLinks(ctx context.Context, id uuid.UUID, expiry time.Duration) ([]AttachmentLink, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobStorage
	}

	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	links := make([]AttachmentLink, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		url, err := s.blobs.SignedURL(ctx, a.Key, expiry)
		if err != nil {
			return nil, err
		}
		links = append(links, AttachmentLink{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			URL:         url,
		})
	}
	return links, nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id.String()); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate template cache",
			slog.String("template_id", id.String()),
			slog.Any("error", err),
		)
	}
}
