package mail

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mail: email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("mail: email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("mail: email must have HTML content")

	// ErrSendFailed indicates the transport rejected or failed the send.
	ErrSendFailed = errors.New("mail: failed to send email")
)
