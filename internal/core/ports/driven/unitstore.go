package driven

import (
	"context"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
)

// UnitStore persists the translation units of one named TM store.
//
// Mutating operations are transactional: the unit row and its
// full-text index entry change together or not at all. Structural
// storage failures surface as *domain.StoreIOError; a missing unit
// surfaces as domain.ErrNotFound.
type UnitStore interface {
	// Name returns the store's name ("project", "shared", ...).
	Name() string

	// Insert writes a unit and returns its assigned id. A duplicate
	// source text within the store overwrites the previous pair
	// (last-write-wins) and keeps the original id and created_at.
	Insert(ctx context.Context, unit *domain.TranslationUnit) (int64, error)

	// GetExact looks a unit up by the hash of sourceText. A non-zero
	// pair restricts the lookup to that language pair. Returns
	// domain.ErrNotFound when no unit matches.
	GetExact(ctx context.Context, sourceText string, pair domain.LangPair) (*domain.TranslationUnit, error)

	// Candidates returns units whose indexed source or target text
	// matches ANY of the given terms, in the index's relevance order,
	// capped at limit. An empty term list returns no candidates
	// without touching the index.
	Candidates(ctx context.Context, terms []string, limit int) ([]domain.TranslationUnit, error)

	// Concordance returns units whose source or target text contains
	// term as a substring, capped at limit.
	Concordance(ctx context.Context, term string, limit int) ([]domain.TranslationUnit, error)

	// Update rewrites the source and/or target of an existing unit.
	// A nil field is left unchanged. A changed source re-derives the
	// content hash in the same transaction. Returns
	// domain.ErrNotFound if id does not exist in this store.
	Update(ctx context.Context, id int64, source, target *string) error

	// Delete removes one unit. Returns domain.ErrNotFound if id does
	// not exist in this store.
	Delete(ctx context.Context, id int64) error

	// Clear removes every unit in the store and reports how many.
	Clear(ctx context.Context) (int64, error)

	// Count returns the number of units in the store.
	Count(ctx context.Context) (int64, error)

	// IncrementUsage atomically bumps a unit's usage counter and
	// touches its modified_at. Concurrent increments never lose
	// updates.
	IncrementUsage(ctx context.Context, id int64) error

	// All streams every unit to fn in id order, for export. Iteration
	// stops at the first error fn returns.
	All(ctx context.Context, fn func(domain.TranslationUnit) error) error
}
