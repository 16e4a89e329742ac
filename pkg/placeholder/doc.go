// Package placeholder implements the substitution token syntax used in
// email templates: {$name} and {{name}}.
//
// Both syntaxes are supported side by side and stay distinct: a template
// may declare {$first_name} and {{first_name}} and both resolve from the
// same binding key. Whitespace inside the braces is tolerated and trimmed,
// so {{ first_name }} and {{first_name}} are the same token.
//
// Extraction returns canonical tokens in first-occurrence order:
//
//	placeholder.Extract("Hi {$name}, {{company}} welcomes you")
//	// ["{$name}", "{{company}}"]
//
// Rendering is a literal single pass over the text. Values are never
// re-scanned for placeholders, so substitution cannot cascade. Tokens
// without a binding pass through verbatim instead of disappearing:
//
//	placeholder.Render("Hello {$first}! {{first}} rocks", map[string]string{
//	    "first": "Ana",
//	})
//	// "Hello Ana! Ana rocks"
//
// Merge combines two binding sources with a documented precedence rule
// (override wins), used by bulk dispatch to layer recipient profile fields
// over caller-supplied bindings.
package placeholder
