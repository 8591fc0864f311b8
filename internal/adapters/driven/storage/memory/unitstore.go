// Package memory provides an in-memory UnitStore for tests and
// scratch TMs. It mirrors the SQLite adapter's semantics (last-write-
// wins inserts, monotonic ids, OR-term candidate retrieval) without
// touching disk.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
)

// UnitStore is an in-memory implementation of driven.UnitStore.
type UnitStore struct {
	name string

	mu     sync.RWMutex
	units  map[int64]domain.TranslationUnit
	byHash map[uint64]int64
	nextID int64
}

var _ driven.UnitStore = (*UnitStore)(nil)

// NewUnitStore creates an empty in-memory store with the given name.
func NewUnitStore(name string) *UnitStore {
	return &UnitStore{
		name:   name,
		units:  make(map[int64]domain.TranslationUnit),
		byHash: make(map[uint64]int64),
		nextID: 1,
	}
}

// Name returns the store's name.
func (s *UnitStore) Name() string {
	return s.name
}

// Insert writes a unit with last-write-wins semantics on source text.
func (s *UnitStore) Insert(_ context.Context, unit *domain.TranslationUnit) (int64, error) {
	if unit.SourceText == "" {
		return 0, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	unit.StoreID = s.name
	unit.ContentHash = domain.ContentHash(unit.SourceText)
	unit.ModifiedAt = now

	if id, ok := s.byHash[unit.ContentHash]; ok {
		existing := s.units[id]
		unit.ID = id
		unit.CreatedAt = existing.CreatedAt
		unit.UsageCount = existing.UsageCount
		s.units[id] = *unit
		return id, nil
	}

	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.ID = s.nextID
	s.nextID++ // ids are never reused, even after delete
	s.units[unit.ID] = *unit
	s.byHash[unit.ContentHash] = unit.ID
	return unit.ID, nil
}

// GetExact looks a unit up by source text hash.
func (s *UnitStore) GetExact(_ context.Context, sourceText string, pair domain.LangPair) (*domain.TranslationUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byHash[domain.ContentHash(sourceText)]
	if !ok {
		return nil, domain.ErrNotFound
	}

	unit := s.units[id]
	if unit.SourceText != sourceText {
		return nil, domain.ErrNotFound
	}
	if !pair.IsZero() && (unit.SourceLang != pair.Source || unit.TargetLang != pair.Target) {
		return nil, domain.ErrNotFound
	}
	return &unit, nil
}

// Candidates returns units containing ANY of the given terms in source
// or target text, ordered by number of matching terms then id.
func (s *UnitStore) Candidates(_ context.Context, terms []string, limit int) ([]domain.TranslationUnit, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type hit struct {
		unit  domain.TranslationUnit
		score int
	}
	var hits []hit
	for _, unit := range s.units {
		text := strings.ToLower(unit.SourceText + " " + unit.TargetText)
		score := 0
		for _, term := range lowered {
			if strings.Contains(text, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{unit: unit, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].unit.ID < hits[j].unit.ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	units := make([]domain.TranslationUnit, len(hits))
	for i, h := range hits {
		units[i] = h.unit
	}
	return units, nil
}

// Concordance returns units containing term as a substring.
func (s *UnitStore) Concordance(_ context.Context, term string, limit int) ([]domain.TranslationUnit, error) {
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var units []domain.TranslationUnit
	for _, unit := range s.units {
		if strings.Contains(unit.SourceText, term) || strings.Contains(unit.TargetText, term) {
			units = append(units, unit)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })

	if len(units) > limit {
		units = units[:limit]
	}
	return units, nil
}

// Update rewrites the source and/or target of an existing unit.
func (s *UnitStore) Update(_ context.Context, id int64, source, target *string) error {
	if source == nil && target == nil {
		return nil
	}
	if source != nil && *source == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unit, ok := s.units[id]
	if !ok {
		return domain.ErrNotFound
	}

	if source != nil {
		delete(s.byHash, unit.ContentHash)
		unit.SourceText = *source
		unit.ContentHash = domain.ContentHash(*source)
		s.byHash[unit.ContentHash] = id
	}
	if target != nil {
		unit.TargetText = *target
	}
	unit.ModifiedAt = time.Now().UTC()
	s.units[id] = unit
	return nil
}

// Delete removes one unit.
func (s *UnitStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unit, ok := s.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.units, id)
	delete(s.byHash, unit.ContentHash)
	return nil
}

// Clear removes every unit.
func (s *UnitStore) Clear(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.units))
	s.units = make(map[int64]domain.TranslationUnit)
	s.byHash = make(map[uint64]int64)
	return n, nil
}

// Count returns the number of units.
func (s *UnitStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.units)), nil
}

// IncrementUsage bumps a unit's usage counter.
func (s *UnitStore) IncrementUsage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unit, ok := s.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	unit.UsageCount++
	unit.ModifiedAt = time.Now().UTC()
	s.units[id] = unit
	return nil
}

// All streams every unit to fn in id order.
func (s *UnitStore) All(_ context.Context, fn func(domain.TranslationUnit) error) error {
	s.mu.RLock()
	ids := make([]int64, 0, len(s.units))
	for id := range s.units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	units := make([]domain.TranslationUnit, len(ids))
	for i, id := range ids {
		units[i] = s.units[id]
	}
	s.mu.RUnlock()

	for _, unit := range units {
		if err := fn(unit); err != nil {
			return err
		}
	}
	return nil
}
