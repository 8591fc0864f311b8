package domain

import "time"

// LangPair identifies a source/target language combination.
// Tags are ISO 639-1, optionally with a region variant ("en", "en-US").
type LangPair struct {
	Source string
	Target string
}

// IsZero reports whether no language pair was specified.
func (p LangPair) IsZero() bool {
	return p.Source == "" && p.Target == ""
}

// String returns the pair in "src->tgt" form for logging.
func (p LangPair) String() string {
	return p.Source + "->" + p.Target
}

// TranslationUnit is one source/target sentence pair in a TM store.
// It is the atomic record of the translation memory.
type TranslationUnit struct {
	// ID is the store-local integer identity. Assigned on insert,
	// never reused after delete.
	ID int64

	// StoreID names the TM store this unit belongs to.
	// A unit belongs to exactly one store.
	StoreID string

	// SourceText is the source-language segment.
	SourceText string

	// TargetText is the target-language segment.
	TargetText string

	// SourceLang and TargetLang are the language tags of the pair.
	SourceLang string
	TargetLang string

	// ContentHash is a 64-bit hash of SourceText used for exact-match
	// lookup. Recomputed whenever SourceText changes.
	ContentHash uint64

	// UsageCount counts match-accepted events. Monotonically
	// non-decreasing.
	UsageCount int64

	// ContextBefore and ContextAfter hold neighbouring segment text.
	// Informational only; never used in matching.
	ContextBefore string
	ContextAfter  string

	// CreatedAt is when the unit was first written. Immutable.
	CreatedAt time.Time

	// ModifiedAt is updated on any field mutation.
	ModifiedAt time.Time
}

// SearchOptions configures a federated TM search.
type SearchOptions struct {
	// StoreIDs restricts the search to the named stores.
	// Empty means all configured stores, in their configured order.
	StoreIDs []string

	// Pair restricts exact lookup to a language pair.
	// Zero value means any pair.
	Pair LangPair

	// Threshold is the minimum similarity score (0..1) for a fuzzy
	// match to be returned. Zero means the default (0.75).
	Threshold float64

	// MaxResults caps the returned match list. Zero means the
	// default (5).
	MaxResults int

	// CandidateLimit caps full-text candidates fetched per store.
	// Zero means the default (50).
	CandidateLimit int
}

// DefaultThreshold is the minimum similarity score applied when
// SearchOptions.Threshold is unset.
const DefaultThreshold = 0.75

// DefaultMaxResults is the result cap applied when
// SearchOptions.MaxResults is unset.
const DefaultMaxResults = 5

// DefaultCandidateLimit is the per-store full-text candidate cap
// applied when SearchOptions.CandidateLimit is unset.
const DefaultCandidateLimit = 50

// Match is a single federated search hit.
type Match struct {
	// UnitID is the matched unit's id within its store.
	UnitID int64

	// StoreID names the store the hit came from.
	StoreID string

	// SourceText and TargetText are the matched pair.
	SourceText string
	TargetText string

	// Score is the similarity ratio in [0,1]. Exact hits score 1.
	Score float64

	// MatchPct is Score*100 rounded to the nearest integer.
	MatchPct int
}

// StoreFailure records a store that could not be queried during a
// federated search. The search continues over the healthy stores.
type StoreFailure struct {
	StoreID string
	Err     error
}

// SearchReport is the outcome of one federated search: the ranked
// matches plus any per-store failures absorbed along the way.
type SearchReport struct {
	// Exact is true when the matches come from an exact-hash hit.
	// Exact hits short-circuit fuzzy retrieval entirely.
	Exact bool

	// Matches is ordered by score descending, tie-broken by store
	// iteration order then unit id ascending.
	Matches []Match

	// Failed lists stores that raised a storage error and were
	// skipped.
	Failed []StoreFailure
}

// ValidationReport is the result of a store consistency check between
// unit rows and their full-text index entries.
type ValidationReport struct {
	// Units is the number of unit rows in the store file.
	Units int64

	// Indexed is the number of full-text index entries.
	Indexed int64

	// Healthy is true when every row has exactly one index entry.
	Healthy bool

	// Repaired is true when a rebuild was performed.
	Repaired bool
}
