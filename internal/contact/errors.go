package contact

import "errors"

var (
	// ErrNotFound indicates the contact does not exist.
	ErrNotFound = errors.New("contact: not found")

	// ErrMissingEmail indicates an ingest payload without a primary email.
	ErrMissingEmail = errors.New("contact: missing primary email")

	// ErrFilteredOut indicates the ingest city filter rejected the payload.
	ErrFilteredOut = errors.New("contact: filtered out by city filter")
)
