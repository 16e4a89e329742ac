package template

import "errors"

var (
	// ErrNotFound indicates the template does not exist.
	ErrNotFound = errors.New("template: not found")

	// ErrDuplicateSlug indicates another template already uses the slug.
	ErrDuplicateSlug = errors.New("template: duplicate slug")

	// ErrMissingField indicates a required field is empty.
	ErrMissingField = errors.New("template: missing required field")

	// ErrInvalidFormat indicates an unknown content format.
	ErrInvalidFormat = errors.New("template: invalid format")

	// ErrInvalidFrontmatter indicates an import file with malformed
	// frontmatter.
	ErrInvalidFrontmatter = errors.New("template: invalid frontmatter")

	// ErrNoBlobStorage indicates attachment operations were used without
	// configuring blob storage.
	ErrNoBlobStorage = errors.New("template: blob storage not configured")
)
