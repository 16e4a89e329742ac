package dispatch

import "errors"

var (
	// ErrEmptyList indicates a bulk dispatch targeted a list with no
	// contacts. Returned before any transport call is made.
	ErrEmptyList = errors.New("dispatch: no contacts in list")

	// ErrNoBlobStorage indicates the template carries attachments but no
	// blob storage is configured.
	ErrNoBlobStorage = errors.New("dispatch: blob storage not configured")
)
