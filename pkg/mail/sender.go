package mail

import "context"

// Sender is the minimal interface an email provider implements.
type Sender interface {
	// Send delivers the email and returns the provider's message
	// identifier. The Email must have To, Subject, and HTML set.
	Send(ctx context.Context, email *Email) (string, error)
}
