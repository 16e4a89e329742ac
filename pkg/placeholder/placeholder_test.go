package placeholder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/herald/pkg/placeholder"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "dollar syntax",
			input:    "Hello {$name}!",
			expected: []string{"{$name}"},
		},
		{
			name:     "double brace syntax",
			input:    "Hello {{name}}!",
			expected: []string{"{{name}}"},
		},
		{
			name:     "both syntaxes stay distinct for the same key",
			input:    "Hi {$name}, {{name}} again",
			expected: []string{"{$name}", "{{name}}"},
		},
		{
			name:     "first occurrence order across syntaxes",
			input:    "{{company}} welcomes {$name} to {{company}}",
			expected: []string{"{{company}}", "{$name}"},
		},
		{
			name:     "whitespace inside braces is trimmed",
			input:    "Dear {{ first_name }}, {$ city } calls",
			expected: []string{"{{first_name}}", "{$city}"},
		},
		{
			name:     "duplicates removed",
			input:    "{$a} {$a} {$a}",
			expected: []string{"{$a}"},
		},
		{
			name:     "no placeholders",
			input:    "plain text with {braces} and $dollars",
			expected: nil,
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, placeholder.Extract(tt.input))
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		bindings map[string]string
		expected string
	}{
		{
			name:     "both syntaxes resolve from the same key",
			input:    "Hello {$first}! {{first}} rocks",
			bindings: map[string]string{"first": "Ana"},
			expected: "Hello Ana! Ana rocks",
		},
		{
			name:     "unbound placeholders pass through verbatim",
			input:    "Hello {$first} from {{company}}",
			bindings: map[string]string{"first": "Ana"},
			expected: "Hello Ana from {{company}}",
		},
		{
			name:     "empty value substitutes as empty string",
			input:    "Hi {$name}, welcome",
			bindings: map[string]string{"name": ""},
			expected: "Hi , welcome",
		},
		{
			name:     "no recursive substitution of inserted text",
			input:    "{$a}",
			bindings: map[string]string{"a": "{$b}", "b": "boom"},
			expected: "{$b}",
		},
		{
			name:     "whitespace-padded tokens resolve",
			input:    "Dear {{ first_name }}",
			bindings: map[string]string{"first_name": "Ana"},
			expected: "Dear Ana",
		},
		{
			name:     "nil bindings leave text unchanged",
			input:    "Hello {$name}",
			bindings: nil,
			expected: "Hello {$name}",
		},
		{
			name:     "all occurrences replaced",
			input:    "{$x} and {$x} and {{x}}",
			bindings: map[string]string{"x": "y"},
			expected: "y and y and y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, placeholder.Render(tt.input, tt.bindings))
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	input := "Hi {$a} {{b}} {$c} {{d}}"
	bindings := map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}

	first := placeholder.Render(input, bindings)
	for range 100 {
		require.Equal(t, first, placeholder.Render(input, bindings))
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("override wins on collision", func(t *testing.T) {
		t.Parallel()

		base := map[string]string{"name": "generic", "city": "Dubai"}
		override := map[string]string{"name": "Ana Gomez"}

		merged := placeholder.Merge(base, override)
		require.Equal(t, "Ana Gomez", merged["name"])
		require.Equal(t, "Dubai", merged["city"])
	})

	t.Run("inputs are not modified", func(t *testing.T) {
		t.Parallel()

		base := map[string]string{"a": "1"}
		override := map[string]string{"a": "2"}

		_ = placeholder.Merge(base, override)
		require.Equal(t, "1", base["a"])
	})

	t.Run("nil inputs", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, placeholder.Merge(nil, nil))
		require.Equal(t, map[string]string{"a": "1"}, placeholder.Merge(nil, map[string]string{"a": "1"}))
		require.Equal(t, map[string]string{"a": "1"}, placeholder.Merge(map[string]string{"a": "1"}, nil))
	})
}
