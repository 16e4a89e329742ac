// Package smtp implements mail.Sender over plain SMTP.
//
// SMTP has no server-assigned delivery identifier, so the sender stamps
// every message with its own Message-ID header (a ULID at the sender
// domain) and returns that as the message id.
package smtp

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/dmitrymomot/herald/pkg/id"
	"github.com/dmitrymomot/herald/pkg/mail"
)

// Config holds SMTP provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host        string `env:"SMTP_HOST"`
	Port        int    `env:"SMTP_PORT" envDefault:"587"`
	Username    string `env:"SMTP_USERNAME"`
	Password    string `env:"SMTP_PASSWORD"`
	SenderEmail string `env:"SMTP_FROM_EMAIL"`
	SenderName  string `env:"SMTP_FROM_NAME"`
}

// Sender sends email through an SMTP relay.
type Sender struct {
	config Config
	auth   smtp.Auth
}

// New creates a new SMTP sender. Authentication is enabled only when
// credentials are configured.
func New(cfg Config) *Sender {
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Sender{config: cfg, auth: auth}
}

// Send implements mail.Sender. The context is checked before dialing;
// net/smtp itself does not support cancellation mid-session.
func (s *Sender) Send(ctx context.Context, email *mail.Email) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Join(mail.ErrSendFailed, err)
	}
	if err := email.Validate(); err != nil {
		return "", err
	}

	from := email.From
	if from == "" {
		from = mail.Address(s.config.SenderName, s.config.SenderEmail)
	}

	messageID := s.newMessageID()
	msg, err := buildMessage(from, messageID, email)
	if err != nil {
		return "", errors.Join(mail.ErrSendFailed, err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, s.auth, s.config.SenderEmail, email.To, msg); err != nil {
		return "", errors.Join(mail.ErrSendFailed, err)
	}

	return messageID, nil
}

// newMessageID builds a globally unique id at the sender's domain.
func (s *Sender) newMessageID() string {
	domain := s.config.Host
	if at := strings.LastIndex(s.config.SenderEmail, "@"); at >= 0 {
		domain = s.config.SenderEmail[at+1:]
	}
	return fmt.Sprintf("%s@%s", id.NewULID(), domain)
}

// buildMessage assembles the RFC 5322 message: a bare text/html body,
// multipart/alternative when a plain text alternative is present, and
// multipart/mixed wrapping either when attachments are present.
func buildMessage(from, messageID string, email *mail.Email) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(email.To, ", "))
	if email.ReplyTo != "" {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", email.ReplyTo)
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", email.Subject)
	fmt.Fprintf(&buf, "Message-ID: <%s>\r\n", messageID)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(email.Attachments) == 0 {
		if email.Text == "" {
			buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
			buf.WriteString(email.HTML)
			return buf.Bytes(), nil
		}

		alt := multipart.NewWriter(&buf)
		fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", alt.Boundary())
		if err := writeAlternativeParts(alt, email); err != nil {
			return nil, err
		}
		if err := alt.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	w := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	if err := writeBody(w, email); err != nil {
		return nil, err
	}

	for _, a := range email.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
		})
		if err != nil {
			return nil, err
		}
		enc := base64.NewEncoder(base64.StdEncoding, part)
		if _, err := enc.Write(a.Content); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBody writes the message body into a multipart/mixed writer: a
// plain html part, or a nested multipart/alternative when a text
// alternative exists.
func writeBody(w *multipart.Writer, email *mail.Email) error {
	if email.Text == "" {
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type": {`text/html; charset="UTF-8"`},
		})
		if err != nil {
			return err
		}
		_, err = part.Write([]byte(email.HTML))
		return err
	}

	var body bytes.Buffer
	alt := multipart.NewWriter(&body)
	if err := writeAlternativeParts(alt, email); err != nil {
		return err
	}
	if err := alt.Close(); err != nil {
		return err
	}

	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary())},
	})
	if err != nil {
		return err
	}
	_, err = part.Write(body.Bytes())
	return err
}

// writeAlternativeParts writes the text part before the html part, so
// readers that understand both pick the html alternative.
func writeAlternativeParts(alt *multipart.Writer, email *mail.Email) error {
	text, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="UTF-8"`},
	})
	if err != nil {
		return err
	}
	if _, err := text.Write([]byte(email.Text)); err != nil {
		return err
	}

	html, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return err
	}
	_, err = html.Write([]byte(email.HTML))
	return err
}
