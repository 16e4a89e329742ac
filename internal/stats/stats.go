// Package stats aggregates reporting figures over contacts, templates,
// and the send ledger. Per-template usage is aggregated in memory from
// ledger entries rather than pushed into the database.
package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/herald/internal/ledger"
)

// ContactCounts is a total/sent split of a contact population.
type ContactCounts struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Unsent int `json:"unsent"`
}

// TemplateCounts is a total/active split of templates.
type TemplateCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// TemplateUsage is the aggregated send activity of one template.
type TemplateUsage struct {
	TemplateID      uuid.UUID `json:"template_id"`
	TemplateName    string    `json:"template_name"`
	TemplateSlug    string    `json:"template_slug"`
	TotalSends      int       `json:"total_sends"`
	Recipients      int       `json:"recipients"`
	IndividualSends int       `json:"individual_sends"`
	BulkSends       int       `json:"bulk_sends"`
	FirstSentAt     time.Time `json:"first_sent_at"`
	LastSentAt      time.Time `json:"last_sent_at"`
}

// Overview is the top-level reporting snapshot.
type Overview struct {
	Contacts  ContactCounts   `json:"contacts"`
	Templates TemplateCounts  `json:"templates"`
	Lists     []string        `json:"lists"`
	Usage     []TemplateUsage `json:"usage"`
}

// Source provides the counting queries the aggregations need.
type Source interface {
	ContactCounts(ctx context.Context) (ContactCounts, error)
	ContactCountsByList(ctx context.Context, listName string) (ContactCounts, error)
	TemplateCounts(ctx context.Context) (TemplateCounts, error)
	ListNames(ctx context.Context) ([]string, error)
}

// LedgerSource provides the ledger entries to aggregate over.
type LedgerSource interface {
	All(ctx context.Context) ([]ledger.Entry, error)
}

// Service computes reporting aggregations.
type Service struct {
	src    Source
	ledger LedgerSource
}

// NewService creates a stats service.
func NewService(src Source, ledgerSrc LedgerSource) *Service {
	return &Service{src: src, ledger: ledgerSrc}
}

// Overview returns the full reporting snapshot.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	contacts, err := s.src.ContactCounts(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := s.src.TemplateCounts(ctx)
	if err != nil {
		return nil, err
	}
	lists, err := s.src.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	usage, err := s.aggregateUsage(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Contacts:  contacts,
		Templates: templates,
		Lists:     lists,
		Usage:     usage,
	}, nil
}

// ListStats returns the contact counts for one list.
func (s *Service) ListStats(ctx context.Context, listName string) (ContactCounts, error) {
	return s.src.ContactCountsByList(ctx, listName)
}

// TemplateStats returns the aggregated usage of one template, or a zero
// usage record when the template was never sent.
func (s *Service) TemplateStats(ctx context.Context, templateID uuid.UUID) (TemplateUsage, error) {
	usage, err := s.aggregateUsage(ctx)
	if err != nil {
		return TemplateUsage{}, err
	}
	for _, u := range usage {
		if u.TemplateID == templateID {
			return u, nil
		}
	}
	return TemplateUsage{TemplateID: templateID}, nil
}

// aggregateUsage folds every ledger entry's per-template records into
// one usage row per template.
func (s *Service) aggregateUsage(ctx context.Context) ([]TemplateUsage, error) {
	entries, err := s.ledger.All(ctx)
	if err != nil {
		return nil, err
	}

	byTemplate := make(map[uuid.UUID]*TemplateUsage)
	var order []uuid.UUID

	for _, entry := range entries {
		for _, rec := range entry.Records {
			u, ok := byTemplate[rec.TemplateID]
			if !ok {
				u = &TemplateUsage{
					TemplateID:   rec.TemplateID,
					TemplateName: rec.TemplateName,
					TemplateSlug: rec.TemplateSlug,
					FirstSentAt:  rec.FirstSentAt,
					LastSentAt:   rec.LastSentAt,
				}
				byTemplate[rec.TemplateID] = u
				order = append(order, rec.TemplateID)
			}

			u.TotalSends += rec.SendCount
			u.Recipients++
			if rec.FirstSentAt.Before(u.FirstSentAt) {
				u.FirstSentAt = rec.FirstSentAt
			}
			if rec.LastSentAt.After(u.LastSentAt) {
				u.LastSentAt = rec.LastSentAt
			}
			for _, ev := range rec.Events {
				switch ev.Channel {
				case ledger.ChannelBulk:
					u.BulkSends++
				default:
					u.IndividualSends++
				}
			}
		}
	}

	usage := make([]TemplateUsage, 0, len(order))
	for _, id := range order {
		usage = append(usage, *byTemplate[id])
	}
	return usage, nil
}
