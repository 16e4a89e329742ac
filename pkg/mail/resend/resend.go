// Package resend implements mail.Sender using the Resend API.
package resend

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/herald/pkg/mail"
)

// Config holds Resend provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME"`
}

// Sender sends email through the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mail.Sender. Returns the Resend message id.
func (s *Sender) Send(ctx context.Context, email *mail.Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}

	from := email.From
	if from == "" {
		from = mail.Address(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}

	for _, a := range email.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", errors.Join(mail.ErrSendFailed, err)
	}

	return sent.Id, nil
}
