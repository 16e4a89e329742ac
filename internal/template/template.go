package template

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/herald/pkg/placeholder"
)

// Format identifies how template content is authored.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Attachment is a file stored in blob storage and attached to every
// message rendered from the template.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
}

// Template is a reusable email template. Placeholders is derived from
// Subject and Content, never authored directly.
type Template struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Subject      string       `json:"subject"`
	Content      string       `json:"content"`
	Category     string       `json:"category"`
	Format       Format       `json:"format"`
	Active       bool         `json:"active"`
	Placeholders []string     `json:"placeholders"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// computePlaceholders collects declared placeholders from subject and
// content, subject first, deduplicated in first-occurrence order.
func computePlaceholders(subject, content string) []string {
	tokens := placeholder.Extract(subject)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	for _, t := range placeholder.Extract(content) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}
