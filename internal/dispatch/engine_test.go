package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/herald/internal/contact"
	"github.com/dmitrymomot/herald/internal/ledger"
	"github.com/dmitrymomot/herald/internal/template"
	"github.com/dmitrymomot/herald/pkg/mail"
)

type fakeTemplates struct {
	byID map[uuid.UUID]*template.Template
}

func (f *fakeTemplates) GetByID(_ context.Context, id uuid.UUID) (*template.Template, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, template.ErrNotFound
	}
	return t, nil
}

type fakeContacts struct {
	byEmail map[string][]contact.Contact
	byList  map[string][]contact.Contact
	sent    map[uuid.UUID]uuid.UUID // contact id -> template id
}

func (f *fakeContacts) FindByEmail(_ context.Context, email string) ([]contact.Contact, error) {
	return f.byEmail[email], nil
}

func (f *fakeContacts) FindByList(_ context.Context, listName string) ([]contact.Contact, error) {
	return f.byList[listName], nil
}

func (f *fakeContacts) MarkSent(_ context.Context, contactID, templateID, _ uuid.UUID) error {
	if f.sent == nil {
		f.sent = make(map[uuid.UUID]uuid.UUID)
	}
	f.sent[contactID] = templateID
	return nil
}

type fakeLedger struct {
	entries map[uuid.UUID]*ledger.Entry
}

func (f *fakeLedger) FindOrCreate(_ context.Context, contactID uuid.UUID) (*ledger.Entry, error) {
	if f.entries == nil {
		f.entries = make(map[uuid.UUID]*ledger.Entry)
	}
	if e, ok := f.entries[contactID]; ok {
		return e, nil
	}
	e := ledger.NewEntry(contactID)
	f.entries[contactID] = e
	return e, nil
}

func (f *fakeLedger) RecordSend(_ context.Context, entry *ledger.Entry, templateID uuid.UUID, name, slug string, channel ledger.Channel, messageID string) error {
	entry.RecordSend(templateID, name, slug, channel, messageID, entry.UpdatedAt.Add(1))
	return nil
}

func (f *fakeLedger) Summary(_ context.Context, contactID uuid.UUID) ([]ledger.SendRecord, error) {
	e, ok := f.entries[contactID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return e.TemplatesWithCounts(), nil
}

type fakeSender struct {
	failFor map[string]error
	sent    []*mail.Email
	nextID  int
}

func (f *fakeSender) Send(_ context.Context, email *mail.Email) (string, error) {
	if err, ok := f.failFor[email.To[0]]; ok {
		return "", err
	}
	f.sent = append(f.sent, email)
	f.nextID++
	return fmt.Sprintf("msg-%d", f.nextID), nil
}

func htmlTemplate() *template.Template {
	return &template.Template{
		ID:           uuid.New(),
		Name:         "Welcome",
		Slug:         "welcome",
		Subject:      "Hi {$name}",
		Content:      "<p>{{company}} welcomes you, {$name}</p>",
		Category:     "onboarding",
		Format:       template.FormatHTML,
		Active:       true,
		Placeholders: []string{"{$name}", "{{company}}"},
	}
}

func makeContact(email, name, listName string) contact.Contact {
	return contact.Contact{
		ID:         uuid.New(),
		EmailFirst: email,
		FullName:   name,
		ListName:   listName,
	}
}

func TestSendIndividual(t *testing.T) {
	t.Parallel()

	t.Run("renders, sends, records", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		recipient := makeContact("ana@example.com", "Ana", "launch")

		contacts := &fakeContacts{byEmail: map[string][]contact.Contact{
			"ana@example.com": {recipient},
		}}
		ldg := &fakeLedger{}
		sender := &fakeSender{}

		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			contacts, ldg, sender,
		)

		receipt, err := engine.SendIndividual(context.Background(), tmpl.ID, "Ana@Example.com", map[string]string{
			"name":    "Ana",
			"company": "Acme",
		})
		require.NoError(t, err)
		require.Equal(t, "msg-1", receipt.MessageID)
		require.Equal(t, "ana@example.com", receipt.Recipient)

		require.Len(t, sender.sent, 1)
		require.Equal(t, "Hi Ana", sender.sent[0].Subject)
		require.Equal(t, "<p>Acme welcomes you, Ana</p>", sender.sent[0].HTML)

		entry := ldg.entries[recipient.ID]
		require.NotNil(t, entry)
		rec := entry.Records[tmpl.ID.String()]
		require.Equal(t, 1, rec.SendCount)
		require.Equal(t, ledger.ChannelIndividual, rec.Channel)
		require.Equal(t, tmpl.ID, contacts.sent[recipient.ID])
	})

	t.Run("template not found", func(t *testing.T) {
		t.Parallel()

		engine := NewEngine(&fakeTemplates{}, &fakeContacts{}, &fakeLedger{}, &fakeSender{})
		_, err := engine.SendIndividual(context.Background(), uuid.New(), "a@example.com", nil)
		require.ErrorIs(t, err, template.ErrNotFound)
	})

	t.Run("unknown contact is never created", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		sender := &fakeSender{}
		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			&fakeContacts{}, &fakeLedger{}, sender,
		)

		_, err := engine.SendIndividual(context.Background(), tmpl.ID, "ghost@example.com", nil)
		require.ErrorIs(t, err, contact.ErrNotFound)
		require.Empty(t, sender.sent)
	})

	t.Run("transport failure leaves no trace", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		recipient := makeContact("ana@example.com", "Ana", "launch")
		contacts := &fakeContacts{byEmail: map[string][]contact.Contact{
			"ana@example.com": {recipient},
		}}
		ldg := &fakeLedger{}
		sender := &fakeSender{failFor: map[string]error{
			"ana@example.com": mail.ErrSendFailed,
		}}

		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			contacts, ldg, sender,
		)

		_, err := engine.SendIndividual(context.Background(), tmpl.ID, "ana@example.com", nil)
		require.ErrorIs(t, err, mail.ErrSendFailed)
		require.Empty(t, ldg.entries)
		require.Empty(t, contacts.sent)
	})

	t.Run("unresolved placeholders pass through", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		recipient := makeContact("ana@example.com", "Ana", "launch")
		contacts := &fakeContacts{byEmail: map[string][]contact.Contact{
			"ana@example.com": {recipient},
		}}
		sender := &fakeSender{}

		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			contacts, &fakeLedger{}, sender,
		)

		_, err := engine.SendIndividual(context.Background(), tmpl.ID, "ana@example.com", map[string]string{"name": "Ana"})
		require.NoError(t, err)
		require.Contains(t, sender.sent[0].HTML, "{{company}}")
	})
}

func TestSendBulk(t *testing.T) {
	t.Parallel()

	t.Run("partial failure isolation", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		var recipients []contact.Contact
		for i := range 5 {
			recipients = append(recipients, makeContact(
				fmt.Sprintf("r%d@example.com", i),
				fmt.Sprintf("Recipient %d", i),
				"launch",
			))
		}

		contacts := &fakeContacts{byList: map[string][]contact.Contact{"launch": recipients}}
		ldg := &fakeLedger{}
		sender := &fakeSender{failFor: map[string]error{
			"r2@example.com": errors.New("mailbox unavailable"),
		}}

		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			contacts, ldg, sender,
		)

		result, err := engine.SendBulk(context.Background(), tmpl.ID, "launch", map[string]string{"company": "Acme"})
		require.NoError(t, err)
		require.Equal(t, 5, result.Total)
		require.Equal(t, 4, result.Successful)
		require.Equal(t, 1, result.Failed)
		require.Len(t, result.Results, 4)
		require.Len(t, result.Errors, 1)
		require.Equal(t, "r2@example.com", result.Errors[0].Email)

		// Only the four succeeding contacts have ledger entries and flags.
		require.Len(t, ldg.entries, 4)
		require.Len(t, contacts.sent, 4)
		_, failedRecorded := ldg.entries[recipients[2].ID]
		require.False(t, failedRecorded)
	})

	t.Run("profile fields override shared bindings", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		recipient := makeContact("ana@example.com", "Ana Silva", "launch")
		recipient.CompanyName = "Real Corp"

		contacts := &fakeContacts{byList: map[string][]contact.Contact{"launch": {recipient}}}
		sender := &fakeSender{}

		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			contacts, &fakeLedger{}, sender,
		)

		_, err := engine.SendBulk(context.Background(), tmpl.ID, "launch", map[string]string{
			"name":    "Valued Customer",
			"company": "Generic Inc",
		})
		require.NoError(t, err)
		require.Equal(t, "Hi Ana Silva", sender.sent[0].Subject)
		require.Contains(t, sender.sent[0].HTML, "Real Corp")
	})

	t.Run("empty list fails before any transport call", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		sender := &fakeSender{}
		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			&fakeContacts{}, &fakeLedger{}, sender,
		)

		_, err := engine.SendBulk(context.Background(), tmpl.ID, "nobody", nil)
		require.ErrorIs(t, err, ErrEmptyList)
		require.Empty(t, sender.sent)
	})

	t.Run("cancellation keeps recorded sends", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		recipients := []contact.Contact{
			makeContact("a@example.com", "A", "launch"),
			makeContact("b@example.com", "B", "launch"),
		}
		ldg := &fakeLedger{}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			&fakeContacts{byList: map[string][]contact.Contact{"launch": recipients}},
			ldg, &fakeSender{},
		)

		result, err := engine.SendBulk(ctx, tmpl.ID, "launch", nil)
		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		require.Zero(t, result.Successful)
	})
}

func TestPreview(t *testing.T) {
	t.Parallel()

	t.Run("html template", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			&fakeContacts{}, &fakeLedger{}, &fakeSender{},
		)

		preview, err := engine.Preview(context.Background(), tmpl.ID, map[string]string{
			"name":    "Ana",
			"company": "Acme",
		})
		require.NoError(t, err)
		require.Equal(t, "Hi Ana", preview.Subject)
		require.Equal(t, "<p>Acme welcomes you, Ana</p>", preview.HTML)
		require.Equal(t, tmpl.Placeholders, preview.Placeholders)
	})

	t.Run("markdown template converts to html", func(t *testing.T) {
		t.Parallel()

		tmpl := htmlTemplate()
		tmpl.Format = template.FormatMarkdown
		tmpl.Content = "# Hello {$name}"

		engine := NewEngine(
			&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
			&fakeContacts{}, &fakeLedger{}, &fakeSender{},
		)

		preview, err := engine.Preview(context.Background(), tmpl.ID, map[string]string{"name": "Ana"})
		require.NoError(t, err)
		require.Contains(t, preview.HTML, "<h1>Hello Ana</h1>")
		require.Equal(t, "# Hello Ana", preview.Text)
	})
}

func TestSendSummary(t *testing.T) {
	t.Parallel()

	tmpl := htmlTemplate()
	recipient := makeContact("ana@example.com", "Ana", "launch")
	contacts := &fakeContacts{byEmail: map[string][]contact.Contact{
		"ana@example.com": {recipient},
	}}
	ldg := &fakeLedger{}

	engine := NewEngine(
		&fakeTemplates{byID: map[uuid.UUID]*template.Template{tmpl.ID: tmpl}},
		contacts, ldg, &fakeSender{},
	)

	_, err := engine.SendIndividual(context.Background(), tmpl.ID, "ana@example.com", nil)
	require.NoError(t, err)
	_, err = engine.SendIndividual(context.Background(), tmpl.ID, "ana@example.com", nil)
	require.NoError(t, err)

	summary, err := engine.SendSummary(context.Background(), recipient.ID)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	require.Equal(t, 2, summary[0].SendCount)
	require.Len(t, summary[0].Events, 2)
}
