package template

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows template listing.
type Filter struct {
	Category    string
	Slug        string
	Placeholder string
	Active      *bool
}

// Store persists templates.
type Store interface {
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context, f Filter) ([]Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
