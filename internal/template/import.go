package template

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// importMeta is the YAML frontmatter of a template import file.
type importMeta struct {
	Name     string `yaml:"name"`
	Subject  string `yaml:"subject"`
	Category string `yaml:"category"`
	Slug     string `yaml:"slug"`
	Format   string `yaml:"format"`
	Active   *bool  `yaml:"active"`
}

var frontmatterDelim = []byte("---")

// parseImport splits a template file into YAML frontmatter and body.
// Files without frontmatter are rejected: name, subject, and category
// have nowhere else to live.
func parseImport(content []byte) (*importMeta, string, error) {
	if !bytes.HasPrefix(content, frontmatterDelim) {
		return nil, "", fmt.Errorf("%w: missing opening delimiter", ErrInvalidFrontmatter)
	}

	rest := bytes.TrimPrefix(content, frontmatterDelim)
	rest = bytes.TrimLeft(rest, "\r\n")

	end := bytes.Index(rest, frontmatterDelim)
	if end == -1 {
		return nil, "", fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	var meta importMeta
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}

	body := rest[end+len(frontmatterDelim):]
	body = bytes.TrimLeft(body, "\r\n")

	return &meta, string(body), nil
}

// Import creates a template from a file with YAML frontmatter and a
// markdown or HTML body. Format defaults to markdown, matching how
// import files are usually authored.
func (s *Service) Import(ctx context.Context, content []byte) (*Template, error) {
	meta, body, err := parseImport(content)
	if err != nil {
		return nil, err
	}

	format := Format(meta.Format)
	if format == "" {
		format = FormatMarkdown
	}

	active := true
	if meta.Active != nil {
		active = *meta.Active
	}

	return s.Create(ctx, CreateParams{
		Name:     meta.Name,
		Subject:  meta.Subject,
		Content:  body,
		Category: meta.Category,
		Slug:     meta.Slug,
		Format:   format,
		Active:   active,
	})
}
