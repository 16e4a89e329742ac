package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service implements ledger operations on top of a Store.
type Service struct {
	store Store
}

// NewService creates a ledger service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// FindOrCreate returns the contact's existing entry or creates an empty
// one. Lookup precedes create; when two callers race past the lookup,
// the store's unique constraint rejects the second create and the loser
// re-reads the winner's entry.
func (s *Service) FindOrCreate(ctx context.Context, contactID uuid.UUID) (*Entry, error) {
	entry, err := s.store.FindByContact(ctx, contactID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	entry = NewEntry(contactID)
	err = s.store.Create(ctx, entry)
	if errors.Is(err, ErrDuplicateEntry) {
		return s.store.FindByContact(ctx, contactID)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordSend applies one send to the entry and persists it.
func (s *Service) RecordSend(ctx context.Context, entry *Entry, templateID uuid.UUID, name, slug string, channel Channel, messageID string) error {
	entry.RecordSend(templateID, name, slug, channel, messageID, time.Now())
	return s.store.Save(ctx, entry)
}

// Summary returns the per-template send records for a contact.
func (s *Service) Summary(ctx context.Context, contactID uuid.UUID) ([]SendRecord, error) {
	entry, err := s.store.FindByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	return entry.TemplatesWithCounts(), nil
}

// All returns every ledger entry, for reporting aggregations.
func (s *Service) All(ctx context.Context) ([]Entry, error) {
	return s.store.All(ctx)
}
