// Package similarity scores how alike two segments are.
//
// The score is the Ratcliff/Obershelp ratio 2*M/T where M is the number
// of matching characters across recursively longest common substrings
// and T is the total length of both inputs. Translator-facing match
// percentages are this ratio times 100.
package similarity

import "github.com/pmezard/go-difflib/difflib"

// Ratio returns the similarity of query and candidate in [0,1].
//
// It is a pure function over the two strings: deterministic, no I/O.
// Both strings empty scores 1.0 (trivially identical); one empty and
// one not scores 0.0. Comparison is per rune, so multi-byte text
// scores the same as single-byte text of equal length.
func Ratio(query, candidate string) float64 {
	if query == "" && candidate == "" {
		return 1.0
	}
	if query == "" || candidate == "" {
		return 0.0
	}

	// Autojunk is disabled: difflib's popularity heuristic would
	// discount frequent characters in long segments and shift scores
	// away from the plain 2M/T ratio.
	m := difflib.NewMatcherWithJunk(runes(query), runes(candidate), false, nil)
	return m.Ratio()
}

// runes splits s into single-rune elements for the sequence matcher.
func runes(s string) []string {
	rs := []rune(s)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
