// Package slug generates URL-safe slugs from arbitrary strings.
//
// Text is lower-cased, Latin diacritics are folded to their ASCII
// equivalents, and any run of non-alphanumeric characters collapses into a
// single separator:
//
//	slug.Make("Hello, World!")        // "hello-world"
//	slug.Make("Café & Restaurant")    // "cafe-restaurant"
//
// Options adjust the output:
//
//	slug.Make("Product Name", slug.Separator("_"))      // "product_name"
//	slug.Make("Long Article Title", slug.MaxLength(12)) // "long-article"
//
// Characters outside the supported sets (CJK, emoji, etc.) are treated as
// separators and collapse away.
package slug
