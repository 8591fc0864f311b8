package domain

import "github.com/cespare/xxhash/v2"

// ContentHash returns the 64-bit hash of a unit's source text used for
// exact-match lookup. It must always be recomputable from the current
// SourceText; callers that edit SourceText re-derive it with this
// function.
func ContentHash(sourceText string) uint64 {
	return xxhash.Sum64String(sourceText)
}
