package driving

import (
	"context"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
)

// Searcher provides federated TM lookup to external actors.
type Searcher interface {
	// Search runs an exact-then-fuzzy lookup across the in-scope
	// stores and returns ranked matches plus per-store failures.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchReport, error)

	// Concordance returns units containing term in source or target
	// text, independent of similarity ranking.
	Concordance(ctx context.Context, term string, storeIDs []string, limit int) (*domain.SearchReport, error)
}

// Tracker records match-accepted events.
type Tracker interface {
	// MatchAccepted bumps the usage counter of one unit. Best-effort:
	// failures are logged, never surfaced, and never block the
	// translation workflow.
	MatchAccepted(ctx context.Context, storeID string, unitID int64)
}

// Transfer moves already-parsed unit tuples in and out of a store.
// Interchange-format parsing (TMX and friends) happens outside the
// engine.
type Transfer interface {
	// Import inserts units into the named store and returns how many
	// were written.
	Import(ctx context.Context, storeID string, units []domain.TranslationUnit) (int64, error)

	// Export streams every unit of the named store to fn in id order.
	Export(ctx context.Context, storeID string, fn func(domain.TranslationUnit) error) error
}
