package placeholder

import (
	"regexp"
	"strings"
)

// token matches both placeholder syntaxes in a single scan so that
// first-occurrence order is preserved across syntaxes.
// Group 1 captures the name of a {{name}} token, group 2 of a {$name} token.
// The {{ alternative must come first: {{name}} also starts with a single
// brace and would otherwise never be reached.
var token = regexp.MustCompile(`\{\{([^{}]+)\}\}|\{\$([^{}]+)\}`)

// Extract returns every placeholder token found in text, normalized to its
// canonical bracket form, deduplicated, in first-occurrence order.
func Extract(text string) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, m := range token.FindAllStringSubmatch(text, -1) {
		var canonical string
		if m[1] != "" {
			canonical = "{{" + strings.TrimSpace(m[1]) + "}}"
		} else {
			canonical = "{$" + strings.TrimSpace(m[2]) + "}"
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}

	return out
}

// Render substitutes bound values into text. Every {$key} and {{key}} token
// whose trimmed key exists in bindings is replaced with the bound value;
// tokens without a binding are left untouched. Replacement is a literal
// single pass: inserted values are never re-scanned, so output is
// deterministic for identical inputs.
func Render(text string, bindings map[string]string) string {
	if len(bindings) == 0 || !strings.Contains(text, "{") {
		return text
	}

	return token.ReplaceAllStringFunc(text, func(match string) string {
		key := trimToken(match)
		if value, ok := bindings[key]; ok {
			return value
		}
		return match
	})
}

// Merge combines two binding maps into a new one. Keys from override win on
// collision; neither input is modified. This is the precedence rule for bulk
// dispatch: a recipient's real profile fields always beat a caller-supplied
// generic value for the same key.
func Merge(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// trimToken strips the bracket syntax from a matched token and returns the
// trimmed placeholder key.
func trimToken(match string) string {
	if strings.HasPrefix(match, "{{") {
		return strings.TrimSpace(match[2 : len(match)-2])
	}
	// {$name}
	return strings.TrimSpace(match[2 : len(match)-1])
}
