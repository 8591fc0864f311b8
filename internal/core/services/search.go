package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoria-cli/internal/logger"
	"github.com/custodia-labs/memoria-cli/internal/sanitize"
	"github.com/custodia-labs/memoria-cli/internal/similarity"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// scoredUnit carries a candidate through scoring with its tie-break
// keys: store iteration order first, unit id second.
type scoredUnit struct {
	unit     domain.TranslationUnit
	score    float64
	storeIdx int
}

// SearchService federates TM lookups across an ordered list of named
// stores. The store order is fixed at construction and doubles as the
// tie-break order for equal scores, so identical searches over
// identical store states always return identical result lists.
type SearchService struct {
	stores []driven.UnitStore
}

// NewSearchService creates a federation layer over the given stores.
// The slice order is the store iteration order.
func NewSearchService(stores []driven.UnitStore) *SearchService {
	return &SearchService{stores: stores}
}

// Search runs one federated lookup: exact hash match first, then
// full-text candidate retrieval and similarity ranking. A store that
// fails with a storage error is skipped and reported; the remaining
// stores are still served.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchReport, error) {
	logger.Section("TM Search")
	logger.Debug("Query: %q", query)

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = domain.DefaultThreshold
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}
	candidateLimit := opts.CandidateLimit
	if candidateLimit <= 0 {
		candidateLimit = domain.DefaultCandidateLimit
	}
	logger.Debug("Threshold: %.2f, MaxResults: %d, CandidateLimit: %d", threshold, maxResults, candidateLimit)

	stores, err := s.scoped(opts.StoreIDs)
	if err != nil {
		return nil, err
	}

	report := &domain.SearchReport{}

	// Exact match short-circuits fuzzy retrieval entirely: no
	// tokenising, no index query, no scoring.
	for _, store := range stores {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		unit, err := store.GetExact(ctx, query, opts.Pair)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			logger.Warn("Store %q failed during exact lookup: %v", store.Name(), err)
			report.Failed = append(report.Failed, domain.StoreFailure{StoreID: store.Name(), Err: err})
			continue
		}

		logger.Info("Exact hit in store %q (unit %d)", store.Name(), unit.ID)
		report.Exact = true
		report.Matches = []domain.Match{{
			UnitID:     unit.ID,
			StoreID:    store.Name(),
			SourceText: unit.SourceText,
			TargetText: unit.TargetText,
			Score:      1.0,
			MatchPct:   100,
		}}
		return report, nil
	}

	// Fuzzy path: the index only ever sees sanitised terms. No terms
	// means nothing searchable, not an error.
	terms := sanitize.Tokens(query)
	if len(terms) == 0 {
		logger.Debug("No searchable terms, returning empty result")
		return report, nil
	}
	logger.Debug("Query terms: %v", terms)

	var scored []scoredUnit
	for idx, store := range stores {
		// Cancellation is checked between per-store retrieval steps.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := store.Candidates(ctx, terms, candidateLimit)
		if err != nil {
			logger.Warn("Store %q failed during candidate retrieval: %v", store.Name(), err)
			report.Failed = append(report.Failed, domain.StoreFailure{StoreID: store.Name(), Err: err})
			continue
		}
		logger.Debug("Store %q: %d candidates", store.Name(), len(candidates))

		for _, cand := range candidates {
			// Score against the raw query text. Sanitisation exists
			// for the index grammar, never for the similarity math.
			scored = append(scored, scoredUnit{
				unit:     cand,
				score:    similarity.Ratio(query, cand.SourceText),
				storeIdx: idx,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := scored[:0]
	for _, sc := range scored {
		if sc.score >= threshold {
			filtered = append(filtered, sc)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].score != filtered[j].score {
			return filtered[i].score > filtered[j].score
		}
		if filtered[i].storeIdx != filtered[j].storeIdx {
			return filtered[i].storeIdx < filtered[j].storeIdx
		}
		return filtered[i].unit.ID < filtered[j].unit.ID
	})

	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}

	report.Matches = make([]domain.Match, len(filtered))
	for i, sc := range filtered {
		report.Matches[i] = domain.Match{
			UnitID:     sc.unit.ID,
			StoreID:    sc.unit.StoreID,
			SourceText: sc.unit.SourceText,
			TargetText: sc.unit.TargetText,
			Score:      sc.score,
			MatchPct:   int(math.Round(sc.score * 100)),
		}
	}

	logger.Info("Returning %d matches (%d store failures)", len(report.Matches), len(report.Failed))
	return report, nil
}

// Concordance retrieves units containing term in source or target text
// across the in-scope stores, independent of similarity ranking.
// Per-store failures are absorbed the same way as in Search.
func (s *SearchService) Concordance(ctx context.Context, term string, storeIDs []string, limit int) (*domain.SearchReport, error) {
	logger.Section("Concordance")
	logger.Debug("Term: %q", term)

	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	stores, err := s.scoped(storeIDs)
	if err != nil {
		return nil, err
	}

	report := &domain.SearchReport{}
	for _, store := range stores {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(report.Matches) >= limit {
			break
		}

		units, err := store.Concordance(ctx, term, limit-len(report.Matches))
		if err != nil {
			logger.Warn("Store %q failed during concordance: %v", store.Name(), err)
			report.Failed = append(report.Failed, domain.StoreFailure{StoreID: store.Name(), Err: err})
			continue
		}

		for _, unit := range units {
			report.Matches = append(report.Matches, domain.Match{
				UnitID:     unit.ID,
				StoreID:    unit.StoreID,
				SourceText: unit.SourceText,
				TargetText: unit.TargetText,
			})
		}
	}

	logger.Info("Concordance: %d matches (%d store failures)", len(report.Matches), len(report.Failed))
	return report, nil
}

// scoped returns the stores to query, in federation order. An empty
// filter means every configured store.
func (s *SearchService) scoped(storeIDs []string) ([]driven.UnitStore, error) {
	if len(storeIDs) == 0 {
		return s.stores, nil
	}

	byName := make(map[string]driven.UnitStore, len(s.stores))
	for _, store := range s.stores {
		byName[store.Name()] = store
	}

	scoped := make([]driven.UnitStore, 0, len(storeIDs))
	for _, id := range storeIDs {
		store, ok := byName[id]
		if !ok {
			return nil, fmt.Errorf("store %q: %w", id, domain.ErrUnknownStore)
		}
		scoped = append(scoped, store)
	}
	return scoped, nil
}
