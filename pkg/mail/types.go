package mail

import "fmt"

// Email is a fully-prepared message ready for sending.
type Email struct {
	From        string // overrides the provider default sender when set
	ReplyTo     string
	Subject     string
	HTML        string // HTML body (required)
	Text        string // plain text alternative
	To          []string
	Attachments []Attachment
}

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Validate checks the email has the fields every transport requires.
func (e *Email) Validate() error {
	if len(e.To) == 0 {
		return ErrNoRecipient
	}
	if e.Subject == "" {
		return ErrNoSubject
	}
	if e.HTML == "" {
		return ErrNoContent
	}
	return nil
}

// Address formats a display name and email into RFC 5322 form:
// "Name <email>", or just the email when no name is given.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
