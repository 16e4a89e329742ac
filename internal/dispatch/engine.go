package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/herald/internal/contact"
	"github.com/dmitrymomot/herald/internal/ledger"
	"github.com/dmitrymomot/herald/internal/template"
	"github.com/dmitrymomot/herald/pkg/blob"
	"github.com/dmitrymomot/herald/pkg/mail"
	"github.com/dmitrymomot/herald/pkg/placeholder"
)

// Templates resolves templates for dispatch.
type Templates interface {
	GetByID(ctx context.Context, id uuid.UUID) (*template.Template, error)
}

// Contacts resolves recipients and records send flags.
type Contacts interface {
	FindByEmail(ctx context.Context, email string) ([]contact.Contact, error)
	FindByList(ctx context.Context, listName string) ([]contact.Contact, error)
	MarkSent(ctx context.Context, contactID, templateID, ledgerID uuid.UUID) error
}

// Ledger records send history.
type Ledger interface {
	FindOrCreate(ctx context.Context, contactID uuid.UUID) (*ledger.Entry, error)
	RecordSend(ctx context.Context, entry *ledger.Entry, templateID uuid.UUID, name, slug string, channel ledger.Channel, messageID string) error
	Summary(ctx context.Context, contactID uuid.UUID) ([]ledger.SendRecord, error)
}

// Engine is the dispatch orchestrator.
type Engine struct {
	templates Templates
	contacts  Contacts
	ledger    Ledger
	sender    mail.Sender
	blobs     blob.Storage
	md        goldmark.Markdown
	log       *slog.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithBlobStorage enables attachment loading at dispatch time.
func WithBlobStorage(b blob.Storage) Option {
	return func(e *Engine) { e.blobs = b }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates a dispatch engine.
func NewEngine(templates Templates, contacts Contacts, ldg Ledger, sender mail.Sender, opts ...Option) *Engine {
	e := &Engine{
		templates: templates,
		contacts:  contacts,
		ledger:    ldg,
		sender:    sender,
		md:        goldmark.New(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Receipt is the result of one successful send.
type Receipt struct {
	MessageID  string    `json:"message_id"`
	Recipient  string    `json:"recipient"`
	TemplateID uuid.UUID `json:"template_id"`
}

// SendIndividual renders and sends a template to one existing contact.
// The contact is resolved by normalized email and never created here.
// On transport failure nothing is recorded; on success the ledger entry
// and contact flags are updated before the receipt is returned.
func (e *Engine) SendIndividual(ctx context.Context, templateID uuid.UUID, email string, bindings map[string]string) (*Receipt, error) {
	tmpl, err := e.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	matches, err := e.contacts.FindByEmail(ctx, contact.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", contact.ErrNotFound, email)
	}

	return e.sendOne(ctx, tmpl, &matches[0], bindings, ledger.ChannelIndividual)
}

// RecipientError is one failed recipient in a bulk dispatch.
type RecipientError struct {
	Email string `json:"email"`
	Err   string `json:"error"`
}

// BulkResult aggregates a bulk dispatch.
type BulkResult struct {
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Results    []Receipt        `json:"results"`
	Errors     []RecipientError `json:"errors"`
}

// SendBulk renders and sends a template to every contact in a list,
// sequentially. Per-recipient bindings are the shared bindings merged
// with the contact's profile fields, profile winning on collisions. A
// failure for one recipient is captured and the loop continues; context
// cancellation abandons the remaining recipients, leaving already
// recorded sends in place.
func (e *Engine) SendBulk(ctx context.Context, templateID uuid.UUID, listName string, shared map[string]string) (*BulkResult, error) {
	tmpl, err := e.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	recipients, err := e.contacts.FindByList(ctx, listName)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyList, listName)
	}

	result := &BulkResult{Total: len(recipients)}
	for i := range recipients {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		recipient := &recipients[i]
		bindings := placeholder.Merge(shared, recipient.Bindings())

		receipt, err := e.sendOne(ctx, tmpl, recipient, bindings, ledger.ChannelBulk)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecipientError{
				Email: recipient.EmailFirst,
				Err:   err.Error(),
			})
			e.log.WarnContext(ctx, "bulk recipient failed",
				slog.String("recipient", recipient.EmailFirst),
				slog.String("template_id", templateID.String()),
				slog.Any("error", err),
			)
			continue
		}

		result.Successful++
		result.Results = append(result.Results, *receipt)
	}

	e.log.InfoContext(ctx, "bulk dispatch finished",
		slog.String("template_id", templateID.String()),
		slog.String("list", listName),
		slog.Int("total", result.Total),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

// sendOne is the shared render-send-record path for both channels.
func (e *Engine) sendOne(ctx context.Context, tmpl *template.Template, recipient *contact.Contact, bindings map[string]string, channel ledger.Channel) (*Receipt, error) {
	subject, html, text, err := e.render(tmpl, bindings)
	if err != nil {
		return nil, err
	}

	attachments, err := e.loadAttachments(ctx, tmpl)
	if err != nil {
		return nil, err
	}

	messageID, err := e.sender.Send(ctx, &mail.Email{
		To:          []string{recipient.EmailFirst},
		Subject:     subject,
		HTML:        html,
		Text:        text,
		Attachments: attachments,
	})
	if err != nil {
		return nil, err
	}

	entry, err := e.ledger.FindOrCreate(ctx, recipient.ID)
	if err != nil {
		return nil, err
	}
	if err := e.ledger.RecordSend(ctx, entry, tmpl.ID, tmpl.Name, tmpl.Slug, channel, messageID); err != nil {
		return nil, err
	}
	if err := e.contacts.MarkSent(ctx, recipient.ID, tmpl.ID, entry.ID); err != nil {
		return nil, err
	}

	return &Receipt{
		MessageID:  messageID,
		Recipient:  recipient.EmailFirst,
		TemplateID: tmpl.ID,
	}, nil
}

// render substitutes bindings into subject and content. Markdown
// templates are converted to HTML after substitution, with the rendered
// markdown kept as the plain text alternative.
func (e *Engine) render(tmpl *template.Template, bindings map[string]string) (subject, html, text string, err error) {
	subject = placeholder.Render(tmpl.Subject, bindings)
	body := placeholder.Render(tmpl.Content, bindings)

	if tmpl.Format == template.FormatMarkdown {
		var buf bytes.Buffer
		if err := e.md.Convert([]byte(body), &buf); err != nil {
			return "", "", "", fmt.Errorf("dispatch: convert markdown: %w", err)
		}
		return subject, buf.String(), body, nil
	}

	return subject, body, "", nil
}

// loadAttachments fetches the template's attachment blobs.
func (e *Engine) loadAttachments(ctx context.Context, tmpl *template.Template) ([]mail.Attachment, error) {
	if len(tmpl.Attachments) == 0 {
		return nil, nil
	}
	if e.blobs == nil {
		return nil, ErrNoBlobStorage
	}

	attachments := make([]mail.Attachment, 0, len(tmpl.Attachments))
	for _, a := range tmpl.Attachments {
		rc, err := e.blobs.Get(ctx, a.Key)
		if err != nil {
			return nil, fmt.Errorf("dispatch: load attachment %s: %w", a.Filename, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("dispatch: read attachment %s: %w", a.Filename, err)
		}
		attachments = append(attachments, mail.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     content,
		})
	}
	return attachments, nil
}

// PreviewResult is a rendered template without a send.
type PreviewResult struct {
	Subject      string   `json:"subject"`
	HTML         string   `json:"html"`
	Text         string   `json:"text,omitempty"`
	Placeholders []string `json:"placeholders"`
}

// Preview renders subject and content with the given bindings without
// sending anything.
func (e *Engine) Preview(ctx context.Context, templateID uuid.UUID, bindings map[string]string) (*PreviewResult, error) {
	tmpl, err := e.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	subject, html, text, err := e.render(tmpl, bindings)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Subject:      subject,
		HTML:         html,
		Text:         text,
		Placeholders: tmpl.Placeholders,
	}, nil
}

// SendSummary returns the per-template send records for a contact.
func (e *Engine) SendSummary(ctx context.Context, contactID uuid.UUID) ([]ledger.SendRecord, error) {
	return e.ledger.Summary(ctx, contactID)
}
