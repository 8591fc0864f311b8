package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memoria-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
)

// failingStore simulates a store whose backing file is unreadable.
type failingStore struct {
	driven.UnitStore
}

func (f *failingStore) GetExact(context.Context, string, domain.LangPair) (*domain.TranslationUnit, error) {
	return nil, &domain.StoreIOError{Store: f.Name(), Err: errors.New("disk error")}
}

func (f *failingStore) Candidates(context.Context, []string, int) ([]domain.TranslationUnit, error) {
	return nil, &domain.StoreIOError{Store: f.Name(), Err: errors.New("disk error")}
}

func (f *failingStore) Concordance(context.Context, string, int) ([]domain.TranslationUnit, error) {
	return nil, &domain.StoreIOError{Store: f.Name(), Err: errors.New("disk error")}
}

func newStoreWith(t *testing.T, name string, pairs map[string]string) *memory.UnitStore {
	t.Helper()

	store := memory.NewUnitStore(name)
	for source, target := range pairs {
		_, err := store.Insert(context.Background(), &domain.TranslationUnit{
			SourceText: source,
			TargetText: target,
			SourceLang: "nl",
			TargetLang: "en",
		})
		require.NoError(t, err)
	}
	return store
}

func TestSearch_ExactShortCircuits(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"De uitvinding heeft betrekking op een voegplaat": "The invention relates to a joint plate",
	})
	svc := NewSearchService([]driven.UnitStore{project})

	report, err := svc.Search(context.Background(), "De uitvinding heeft betrekking op een voegplaat", domain.SearchOptions{})
	require.NoError(t, err)
	assert.True(t, report.Exact)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, 1.0, report.Matches[0].Score)
	assert.Equal(t, 100, report.Matches[0].MatchPct)
	assert.Equal(t, "The invention relates to a joint plate", report.Matches[0].TargetText)
}

func TestSearch_ExactWinsOverFuzzy(t *testing.T) {
	// An exact hit in a later store still suppresses fuzzy matching in
	// an earlier one.
	project := newStoreWith(t, "project", map[string]string{
		"Hello world!": "Hallo wereld!",
	})
	shared := newStoreWith(t, "shared", map[string]string{
		"Hello world": "Hallo wereld",
	})
	svc := NewSearchService([]driven.UnitStore{project, shared})

	report, err := svc.Search(context.Background(), "Hello world", domain.SearchOptions{})
	require.NoError(t, err)
	assert.True(t, report.Exact)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "shared", report.Matches[0].StoreID)
}

func TestSearch_FuzzyAboveThreshold(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"De uitvinding heeft betrekking op een voegplaat": "The invention relates to a joint plate",
		"Goedemorgen allemaal":                            "Good morning everyone",
	})
	svc := NewSearchService([]driven.UnitStore{project})

	query := "De uitvinding heeft betrekking op een voegplaat, voorzien van een wapening."
	report, err := svc.Search(context.Background(), query, domain.SearchOptions{})
	require.NoError(t, err)
	assert.False(t, report.Exact)
	require.Len(t, report.Matches, 1)

	match := report.Matches[0]
	assert.Equal(t, "De uitvinding heeft betrekking op een voegplaat", match.SourceText)
	assert.InDelta(t, 94.0/122.0, match.Score, 1e-9)
	assert.Equal(t, 77, match.MatchPct)
}

func TestSearch_ThresholdFiltersWeakMatches(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"een plaat van staal": "a plate of steel",
	})
	svc := NewSearchService([]driven.UnitStore{project})

	// The candidate shares a term so retrieval finds it, but the
	// similarity score stays below the default threshold.
	report, err := svc.Search(context.Background(), "waar is de plaat gebleven vandaag", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Matches)

	// Lowering the threshold lets it through.
	report, err = svc.Search(context.Background(), "waar is de plaat gebleven vandaag", domain.SearchOptions{Threshold: 0.1})
	require.NoError(t, err)
	assert.Len(t, report.Matches, 1)
}

func TestSearch_EmptyQueryTerms(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"Hello world": "Hallo wereld",
	})
	svc := NewSearchService([]driven.UnitStore{project})

	// Punctuation-only input has no searchable terms and no exact hit:
	// an empty result, not an error.
	report, err := svc.Search(context.Background(), `,(),:`, domain.SearchOptions{})
	require.NoError(t, err)
	assert.False(t, report.Exact)
	assert.Empty(t, report.Matches)
	assert.Empty(t, report.Failed)
}

func TestSearch_StoreOrderBreaksTies(t *testing.T) {
	// The same unit in two stores scores identically; the first store
	// in federation order wins the single result slot.
	project := newStoreWith(t, "project", map[string]string{
		"Hello world!": "Hallo wereld! (project)",
	})
	shared := newStoreWith(t, "shared", map[string]string{
		"Hello world!": "Hallo wereld! (shared)",
	})
	svc := NewSearchService([]driven.UnitStore{project, shared})

	report, err := svc.Search(context.Background(), "Hello world", domain.SearchOptions{MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "project", report.Matches[0].StoreID)

	// Reversed federation order flips the winner.
	svc = NewSearchService([]driven.UnitStore{shared, project})
	report, err = svc.Search(context.Background(), "Hello world", domain.SearchOptions{MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "shared", report.Matches[0].StoreID)
}

func TestSearch_MaxResultsTruncates(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"Hello world":   "Hallo wereld",
		"Hello world!":  "Hallo wereld!",
		"Hello world!!": "Hallo wereld!!",
	})
	svc := NewSearchService([]driven.UnitStore{project})

	report, err := svc.Search(context.Background(), "Hello worlds", domain.SearchOptions{MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, report.Matches, 2)

	// Best match first.
	for i := 1; i < len(report.Matches); i++ {
		assert.GreaterOrEqual(t, report.Matches[i-1].Score, report.Matches[i].Score)
	}
}

func TestSearch_PartialStoreFailure(t *testing.T) {
	healthy := newStoreWith(t, "project", map[string]string{
		"Hello world!": "Hallo wereld!",
	})
	broken := &failingStore{UnitStore: memory.NewUnitStore("corrupt")}
	svc := NewSearchService([]driven.UnitStore{broken, healthy})

	report, err := svc.Search(context.Background(), "Hello world", domain.SearchOptions{})
	require.NoError(t, err)

	// The healthy store still answers.
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "project", report.Matches[0].StoreID)

	// The broken store is reported once per failed phase (exact lookup
	// and candidate retrieval), with the storage error preserved.
	require.NotEmpty(t, report.Failed)
	for _, failure := range report.Failed {
		assert.Equal(t, "corrupt", failure.StoreID)
		assert.True(t, domain.IsStoreIO(failure.Err))
	}
}

func TestSearch_ScopedToNamedStores(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"Hello world!": "Hallo wereld!",
	})
	shared := newStoreWith(t, "shared", map[string]string{
		"Hello world": "Hallo wereld",
	})
	svc := NewSearchService([]driven.UnitStore{project, shared})

	report, err := svc.Search(context.Background(), "Hello world", domain.SearchOptions{StoreIDs: []string{"project"}})
	require.NoError(t, err)
	assert.False(t, report.Exact)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "project", report.Matches[0].StoreID)
}

func TestSearch_UnknownStore(t *testing.T) {
	svc := NewSearchService([]driven.UnitStore{memory.NewUnitStore("project")})

	_, err := svc.Search(context.Background(), "Hello", domain.SearchOptions{StoreIDs: []string{"nope"}})
	assert.ErrorIs(t, err, domain.ErrUnknownStore)
}

func TestSearch_Cancellation(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"Hello world": "Hallo wereld",
	})
	svc := NewSearchService([]driven.UnitStore{project})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, "Hello world", domain.SearchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_Deterministic(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"Hello world":   "Hallo wereld",
		"Hello world!":  "Hallo wereld!",
		"Hello friend":  "Hallo vriend",
		"Goodbye world": "Dag wereld",
	})
	shared := newStoreWith(t, "shared", map[string]string{
		"Hello world":  "Hallo wereld (shared)",
		"Hello people": "Hallo mensen",
	})
	svc := NewSearchService([]driven.UnitStore{project, shared})

	first, err := svc.Search(context.Background(), "Hello worlds", domain.SearchOptions{Threshold: 0.5})
	require.NoError(t, err)
	require.NotEmpty(t, first.Matches)

	for i := 0; i < 5; i++ {
		again, err := svc.Search(context.Background(), "Hello worlds", domain.SearchOptions{Threshold: 0.5})
		require.NoError(t, err)
		assert.Equal(t, first.Matches, again.Matches)
	}
}

func TestConcordance(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"De voegplaat is voorzien van een wapening": "The joint plate has a reinforcement",
	})
	shared := newStoreWith(t, "shared", map[string]string{
		"Nog een voegplaat": "Another joint plate",
		"Goedemorgen":       "Good morning",
	})
	svc := NewSearchService([]driven.UnitStore{project, shared})

	report, err := svc.Concordance(context.Background(), "voegplaat", nil, 10)
	require.NoError(t, err)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "project", report.Matches[0].StoreID)
	assert.Equal(t, "shared", report.Matches[1].StoreID)
}

func TestConcordance_PartialStoreFailure(t *testing.T) {
	healthy := newStoreWith(t, "project", map[string]string{
		"De voegplaat": "The joint plate",
	})
	broken := &failingStore{UnitStore: memory.NewUnitStore("corrupt")}
	svc := NewSearchService([]driven.UnitStore{broken, healthy})

	report, err := svc.Concordance(context.Background(), "voegplaat", nil, 10)
	require.NoError(t, err)
	assert.Len(t, report.Matches, 1)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "corrupt", report.Failed[0].StoreID)
}

func TestConcordance_LimitSpansStores(t *testing.T) {
	project := newStoreWith(t, "project", map[string]string{
		"plaat een":  "plate one",
		"plaat twee": "plate two",
	})
	shared := newStoreWith(t, "shared", map[string]string{
		"plaat drie": "plate three",
	})
	svc := NewSearchService([]driven.UnitStore{project, shared})

	report, err := svc.Concordance(context.Background(), "plaat", nil, 2)
	require.NoError(t, err)
	assert.Len(t, report.Matches, 2)
	for _, m := range report.Matches {
		assert.Equal(t, "project", m.StoreID)
	}
}
