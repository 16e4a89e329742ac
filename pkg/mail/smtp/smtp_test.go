package smtp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/herald/pkg/mail"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	t.Run("bare html body", func(t *testing.T) {
		t.Parallel()

		msg, err := buildMessage("Herald <no-reply@example.com>", "abc@example.com", &mail.Email{
			To:      []string{"ana@example.com"},
			Subject: "Welcome",
			HTML:    "<p>Hi Ana</p>",
		})
		require.NoError(t, err)

		s := string(msg)
		require.Contains(t, s, "From: Herald <no-reply@example.com>\r\n")
		require.Contains(t, s, "To: ana@example.com\r\n")
		require.Contains(t, s, "Subject: Welcome\r\n")
		require.Contains(t, s, "Message-ID: <abc@example.com>\r\n")
		require.Contains(t, s, "Content-Type: text/html")
		require.True(t, strings.HasSuffix(s, "<p>Hi Ana</p>"))
		require.NotContains(t, s, "multipart/mixed")
	})

	t.Run("text alternative without attachments", func(t *testing.T) {
		t.Parallel()

		msg, err := buildMessage("no-reply@example.com", "abc@example.com", &mail.Email{
			To:      []string{"ana@example.com"},
			Subject: "Welcome",
			HTML:    "<h1>Hello Ana</h1>",
			Text:    "# Hello Ana",
		})
		require.NoError(t, err)

		s := string(msg)
		require.Contains(t, s, "multipart/alternative")
		require.Contains(t, s, "Content-Type: text/plain")
		require.Contains(t, s, "# Hello Ana")
		require.Contains(t, s, "Content-Type: text/html")
		require.Contains(t, s, "<h1>Hello Ana</h1>")
		// Least preferred alternative first.
		require.Less(t, strings.Index(s, "# Hello Ana"), strings.Index(s, "<h1>Hello Ana</h1>"))
		require.NotContains(t, s, "multipart/mixed")
	})

	t.Run("text alternative nested under attachments", func(t *testing.T) {
		t.Parallel()

		msg, err := buildMessage("no-reply@example.com", "abc@example.com", &mail.Email{
			To:      []string{"ana@example.com"},
			Subject: "Docs",
			HTML:    "<p>attached</p>",
			Text:    "attached",
			Attachments: []mail.Attachment{
				{Filename: "guide.pdf", ContentType: "application/pdf", Content: []byte("fake")},
			},
		})
		require.NoError(t, err)

		s := string(msg)
		require.Contains(t, s, "multipart/mixed")
		require.Contains(t, s, "multipart/alternative")
		require.Contains(t, s, "Content-Type: text/plain")
		require.Contains(t, s, `attachment; filename="guide.pdf"`)
	})

	t.Run("multipart with attachment", func(t *testing.T) {
		t.Parallel()

		msg, err := buildMessage("no-reply@example.com", "abc@example.com", &mail.Email{
			To:      []string{"ana@example.com", "bo@example.com"},
			Subject: "Docs",
			HTML:    "<p>attached</p>",
			Attachments: []mail.Attachment{
				{Filename: "guide.pdf", ContentType: "application/pdf", Content: []byte("fake")},
			},
		})
		require.NoError(t, err)

		s := string(msg)
		require.Contains(t, s, "To: ana@example.com, bo@example.com\r\n")
		require.Contains(t, s, "multipart/mixed")
		require.Contains(t, s, `attachment; filename="guide.pdf"`)
		require.Contains(t, s, "Content-Transfer-Encoding: base64")
		// "fake" in standard base64
		require.Contains(t, s, "ZmFrZQ==")
	})
}

func TestNewMessageID(t *testing.T) {
	t.Parallel()

	t.Run("uses sender domain", func(t *testing.T) {
		t.Parallel()

		s := New(Config{Host: "smtp.example.com", SenderEmail: "no-reply@mail.example.com"})
		id := s.newMessageID()
		require.True(t, strings.HasSuffix(id, "@mail.example.com"), id)
	})

	t.Run("falls back to host", func(t *testing.T) {
		t.Parallel()

		s := New(Config{Host: "smtp.example.com"})
		id := s.newMessageID()
		require.True(t, strings.HasSuffix(id, "@smtp.example.com"), id)
	})

	t.Run("unique per call", func(t *testing.T) {
		t.Parallel()

		s := New(Config{Host: "smtp.example.com"})
		require.NotEqual(t, s.newMessageID(), s.newMessageID())
	})
}

func TestSendRejectsEmptyRecipients(t *testing.T) {
	t.Parallel()

	s := New(Config{Host: "smtp.example.com"})
	_, err := s.Send(context.Background(), &mail.Email{Subject: "x", HTML: "y"})
	require.ErrorIs(t, err, mail.ErrNoRecipient)
}
