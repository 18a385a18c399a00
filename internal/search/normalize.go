// Package search normalizes user-supplied search terms before they reach
// the catalog backend.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes, strips combining marks, then recomposes, so
// "Crémerie" and "Cremerie" search the same.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes a search term: lowercased, diacritics stripped, interior
// whitespace collapsed to single spaces. The marketplace is French-facing,
// so accent-insensitive matching matters more than anything clever.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// The transform chain only fails on malformed UTF-8; fall back to
		// the raw input rather than dropping the term.
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
