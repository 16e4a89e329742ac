package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// options holds slug generation settings.
type options struct {
	separator string
	maxLength int
}

// Option configures slug generation.
type Option func(*options)

// Separator sets the character placed between words. Default "-".
func Separator(sep string) Option {
	return func(o *options) {
		if sep != "" {
			o.separator = sep
		}
	}
}

// MaxLength limits the slug to n runes. Truncation never leaves a trailing
// separator.
func MaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// foldDiacritics decomposes to NFD, drops combining marks, and recomposes
// to NFC, turning "café" into "cafe".
var foldDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Make converts s into a URL-safe slug.
func Make(s string, opts ...Option) string {
	o := &options{separator: "-"}
	for _, opt := range opts {
		opt(o)
	}

	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteString(o.separator)
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}

	out := b.String()
	if o.maxLength > 0 {
		out = truncate(out, o.maxLength, o.separator)
	}
	return out
}

// truncate cuts s to at most n runes and strips a dangling separator.
func truncate(s string, n int, sep string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSuffix(string(r[:n]), sep)
}
