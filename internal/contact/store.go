package contact

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows contact listing. City matches by case-insensitive
// substring; Search matches name, email, or company.
type Filter struct {
	City     string
	ListName string
	Search   string
}

// Store persists contacts.
type Store interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByEmail(ctx context.Context, email string) ([]Contact, error)
	FindByList(ctx context.Context, listName string) ([]Contact, error)
	List(ctx context.Context, f Filter, page, perPage int) ([]Contact, int, error)
	MarkSent(ctx context.Context, contactID, templateID, ledgerID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
