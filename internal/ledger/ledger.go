// Package ledger keeps the durable per-contact record of every template
// send. Each contact owns at most one Entry; inside it, a send record
// per template accumulates counts and an append-only event history.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Channel distinguishes individual sends from bulk-campaign sends.
type Channel string

const (
	ChannelIndividual Channel = "individual"
	ChannelBulk       Channel = "bulk"
)

// SendEvent is one delivery in a template's history.
type SendEvent struct {
	SentAt    time.Time `json:"sent_at"`
	MessageID string    `json:"message_id"`
	Status    string    `json:"status"`
	Channel   Channel   `json:"channel"`
}

// SendRecord aggregates all sends of one template to one contact.
// SendCount always equals len(Events); RecordSend is the only mutator.
type SendRecord struct {
	TemplateID    uuid.UUID   `json:"template_id"`
	TemplateName  string      `json:"template_name"`
	TemplateSlug  string      `json:"template_slug"`
	SendCount     int         `json:"send_count"`
	FirstSentAt   time.Time   `json:"first_sent_at"`
	LastSentAt    time.Time   `json:"last_sent_at"`
	Channel       Channel     `json:"channel"`
	LastMessageID string      `json:"last_message_id"`
	Events        []SendEvent `json:"events"`
}

// Entry is the send ledger for one contact. Records is keyed by
// template id string and persisted as one JSONB document.
type Entry struct {
	ID        uuid.UUID             `json:"id"`
	ContactID uuid.UUID             `json:"contact_id"`
	Records   map[string]SendRecord `json:"records"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewEntry creates an empty ledger entry for a contact.
func NewEntry(contactID uuid.UUID) *Entry {
	now := time.Now()
	return &Entry{
		ID:        uuid.New(),
		ContactID: contactID,
		Records:   make(map[string]SendRecord),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordSend is the single write path for send accounting. A first send
// of a template initializes its record with count 1; subsequent sends
// increment the count and refresh the last timestamp and message id.
// Exactly one event is appended either way, keeping SendCount equal to
// the event list length.
func (e *Entry) RecordSend(templateID uuid.UUID, name, slug string, channel Channel, messageID string, now time.Time) {
	if e.Records == nil {
		e.Records = make(map[string]SendRecord)
	}

	key := templateID.String()
	rec, ok := e.Records[key]
	if !ok {
		rec = SendRecord{
			TemplateID:   templateID,
			TemplateName: name,
			TemplateSlug: slug,
			FirstSentAt:  now,
		}
	}

	rec.SendCount++
	rec.LastSentAt = now
	rec.Channel = channel
	rec.LastMessageID = messageID
	rec.Events = append(rec.Events, SendEvent{
		SentAt:    now,
		MessageID: messageID,
		Status:    "sent",
		Channel:   channel,
	})

	e.Records[key] = rec
	e.UpdatedAt = now
}

// TemplatesWithCounts flattens Records into a slice for reporting.
// Order is unspecified; consumers sort if they need to.
func (e *Entry) TemplatesWithCounts() []SendRecord {
	records := make([]SendRecord, 0, len(e.Records))
	for _, rec := range e.Records {
		records = append(records, rec)
	}
	return records
}
