package ledger

import "errors"

var (
	// ErrNotFound indicates no ledger entry exists for the contact.
	ErrNotFound = errors.New("ledger: entry not found")

	// ErrDuplicateEntry indicates a second entry was created for a
	// contact that already has one.
	ErrDuplicateEntry = errors.New("ledger: contact already has an entry")
)
