package contact

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service implements contact operations on top of a Store.
type Service struct {
	store Store
	log   *slog.Logger

	// cityFilter, when set, rejects ingested contacts whose city does not
	// contain it (case-insensitive substring).
	cityFilter string
}

// Option configures the service.
type Option func(*Service)

// WithCityFilter enables the ingest city filter.
func WithCityFilter(substr string) Option {
	return func(s *Service) { s.cityFilter = strings.ToLower(substr) }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a contact service.
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

// GetByID returns a contact by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.store.GetByID(ctx, id)
}

// FindByEmail matches contacts case-insensitively on the primary email.
func (s *Service) FindByEmail(ctx context.Context, email string) ([]Contact, error) {
	return s.store.FindByEmail(ctx, NormalizeEmail(email))
}

// FindByList returns every contact in the list regardless of prior send
// state; bulk campaigns may re-target already-sent contacts.
func (s *Service) FindByList(ctx context.Context, listName string) ([]Contact, error) {
	return s.store.FindByList(ctx, listName)
}

// List returns a page of contacts with the total match count.
func (s *Service) List(ctx context.Context, f Filter, page, perPage int) ([]Contact, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}
	return s.store.List(ctx, f, page, perPage)
}

// MarkSent flags the contact as mailed and records the template and
// ledger references. Idempotent.
func (s *Service) MarkSent(ctx context.Context, contactID, templateID, ledgerID uuid.UUID) error {
	return s.store.MarkSent(ctx, contactID, templateID, ledgerID)
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// IngestParams is an inbound webhook payload. Name parts are composed
// into FullName; emails are normalized before persistence.
type IngestParams struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Email         string
	SecondEmail   string
	Phone         string
	CompanyPhone  string
	URL           string
	JobTitle      string
	CompanyName   string
	CompanyDomain string
	CompanyID     string
	City          string
	LinkedinID    string
	ListName      string
}

// Ingest creates a contact from a webhook payload. When a city filter is
// configured, payloads whose city does not contain it are rejected with
// ErrFilteredOut.
func (s *Service) Ingest(ctx context.Context, p IngestParams) (*Contact, error) {
	if p.Email == "" {
		return nil, ErrMissingEmail
	}

	if s.cityFilter != "" && !strings.Contains(strings.ToLower(p.City), s.cityFilter) {
		s.log.DebugContext(ctx, "contact rejected by city filter",
			slog.String("city", p.City),
		)
		return nil, ErrFilteredOut
	}

	now := time.Now()
	c := &Contact{
		ID:            uuid.New(),
		EmailFirst:    NormalizeEmail(p.Email),
		EmailSecond:   NormalizeEmail(p.SecondEmail),
		FullName:      composeFullName(p.FirstName, p.MiddleName, p.LastName),
		Phone:         p.Phone,
		CompanyPhone:  p.CompanyPhone,
		URL:           p.URL,
		JobTitle:      p.JobTitle,
		CompanyName:   p.CompanyName,
		CompanyDomain: p.CompanyDomain,
		CompanyID:     p.CompanyID,
		City:          p.City,
		LinkedinID:    p.LinkedinID,
		ListName:      p.ListName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "contact ingested",
		slog.String("contact_id", c.ID.String()),
		slog.String("list", c.ListName),
	)

	return c, nil
}

// composeFullName joins non-empty name parts with single spaces.
func composeFullName(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
