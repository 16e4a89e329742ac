package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Store persists ledger entries. Create must enforce a unique constraint
// on contact_id; that constraint is the single point of serialization
// for concurrent find-or-create races.
type Store interface {
	Create(ctx context.Context, e *Entry) error
	FindByContact(ctx context.Context, contactID uuid.UUID) (*Entry, error)
	Save(ctx context.Context, e *Entry) error
	All(ctx context.Context) ([]Entry, error)
}
