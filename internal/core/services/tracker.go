package services

import (
	"context"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoria-cli/internal/logger"
)

// Ensure TrackerService implements the interface.
var _ driving.Tracker = (*TrackerService)(nil)

// TrackerService records match-accepted events against translation
// units. Usage statistics are a best-effort side channel: a failed
// increment is logged and swallowed, never surfaced to the caller, so
// the translation workflow can never stall on bookkeeping.
type TrackerService struct {
	stores map[string]driven.UnitStore
}

// NewTrackerService creates a tracker over the given stores.
func NewTrackerService(stores []driven.UnitStore) *TrackerService {
	byName := make(map[string]driven.UnitStore, len(stores))
	for _, store := range stores {
		byName[store.Name()] = store
	}
	return &TrackerService{stores: byName}
}

// MatchAccepted bumps the usage counter of one unit. The increment is
// a single atomic store operation; concurrent accepts of the same unit
// never lose updates.
func (t *TrackerService) MatchAccepted(ctx context.Context, storeID string, unitID int64) {
	store, ok := t.stores[storeID]
	if !ok {
		logger.Warn("Usage tracking skipped: %v: %q", domain.ErrUnknownStore, storeID)
		return
	}

	if err := store.IncrementUsage(ctx, unitID); err != nil {
		logger.Warn("Usage tracking failed for unit %d in store %q: %v", unitID, storeID, err)
	}
}
