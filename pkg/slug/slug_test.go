package slug_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/herald/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []slug.Option
		expected string
	}{
		{name: "simple text", input: "Hello World", expected: "hello-world"},
		{name: "punctuation", input: "Hello, World!", expected: "hello-world"},
		{name: "numbers kept", input: "Product 123", expected: "product-123"},
		{name: "runs of separators collapse", input: "Too    Many --- Spaces", expected: "too-many-spaces"},
		{name: "leading and trailing junk trimmed", input: "  Trim Me!  ", expected: "trim-me"},
		{name: "diacritics folded", input: "Café & Restaurant", expected: "cafe-restaurant"},
		{name: "empty input", input: "", expected: ""},
		{name: "only special characters", input: "!@#$%^&*()", expected: ""},
		{name: "custom separator", input: "Product Name", opts: []slug.Option{slug.Separator("_")}, expected: "product_name"},
		{name: "max length", input: "Long Article Title", opts: []slug.Option{slug.MaxLength(12)}, expected: "long-article"},
		{name: "max length strips dangling separator", input: "Long Article Title", opts: []slug.Option{slug.MaxLength(13)}, expected: "long-article"},
		{name: "cjk collapses away", input: "hello 世界 world", expected: "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, slug.Make(tt.input, tt.opts...))
		})
	}
}
