// Package sanitize prepares free-form text for the full-text index.
//
// User-authored segments routinely contain punctuation that is
// syntactically meaningful to the FTS query grammar (quotes, colons,
// parentheses, hyphens). Tokens strips everything that is not a word
// character before any of it can reach the index, so a query-syntax
// error can never originate from user text.
package sanitize

import (
	"strings"
	"unicode"
)

// Tokens splits raw text into full-text query terms.
//
// Characters that are neither word characters (letters, digits,
// underscore) nor whitespace are replaced by spaces, the result is
// split on whitespace, and tokens of one rune or fewer are dropped as
// noise. Order is preserved and duplicates are kept, so identical
// inputs always produce identical term lists.
//
// Tokens is total: it never fails, it only ever returns a slice,
// possibly empty. An empty result means "no searchable terms" and the
// caller must skip the index entirely.
func Tokens(raw string) []string {
	if raw == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	terms := fields[:0]
	for _, f := range fields {
		// Single-rune tokens are noise terms.
		if len([]rune(f)) <= 1 {
			continue
		}
		terms = append(terms, f)
	}

	if len(terms) == 0 {
		return nil
	}
	return terms
}
