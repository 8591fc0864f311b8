package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoria-cli/internal/logger"
)

// Ensure TransferService implements the interface.
var _ driving.Transfer = (*TransferService)(nil)

// TransferService moves already-parsed unit tuples in and out of
// stores for bulk import and export. Interchange formats are parsed
// and serialised outside the engine; this service only ever sees
// (source, target, language) tuples.
type TransferService struct {
	stores map[string]driven.UnitStore
}

// NewTransferService creates a transfer service over the given stores.
func NewTransferService(stores []driven.UnitStore) *TransferService {
	byName := make(map[string]driven.UnitStore, len(stores))
	for _, store := range stores {
		byName[store.Name()] = store
	}
	return &TransferService{stores: byName}
}

// Import inserts units into the named store. Duplicate source texts
// follow the store's last-write-wins policy, so re-importing the same
// file is idempotent. Returns how many units were written.
func (t *TransferService) Import(ctx context.Context, storeID string, units []domain.TranslationUnit) (int64, error) {
	store, ok := t.stores[storeID]
	if !ok {
		return 0, fmt.Errorf("store %q: %w", storeID, domain.ErrUnknownStore)
	}

	logger.Section("Bulk Import")
	logger.Debug("Importing %d units into store %q", len(units), storeID)

	var written int64
	for i := range units {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		unit := units[i]
		if _, err := store.Insert(ctx, &unit); err != nil {
			return written, fmt.Errorf("importing unit %d of %d: %w", i+1, len(units), err)
		}
		written++
	}

	logger.Info("Imported %d units into store %q", written, storeID)
	return written, nil
}

// Export streams every unit of the named store to fn in id order.
func (t *TransferService) Export(ctx context.Context, storeID string, fn func(domain.TranslationUnit) error) error {
	store, ok := t.stores[storeID]
	if !ok {
		return fmt.Errorf("store %q: %w", storeID, domain.ErrUnknownStore)
	}

	return store.All(ctx, fn)
}
