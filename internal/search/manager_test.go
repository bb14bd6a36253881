package search

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/entities"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   int
	results []entities.Book
	total   int64
	err     error
}

func (f *fakeSearcher) Search(_ SearchFilters, _ SortOption, _, _ int) ([]entities.Book, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results, f.total, f.err
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestManager_InitialState(t *testing.T) {
	m := NewManager(&fakeSearcher{})

	s := m.State()
	assert.True(t, s.Filters.IsDefault())
	assert.Equal(t, DefaultSort(), s.Sort)
	assert.Equal(t, DefaultPage, s.Page)
	assert.Equal(t, DefaultLimit, s.Limit)
	assert.Empty(t, s.Results)
}

func TestManager_NonTextFilterFetchesImmediately(t *testing.T) {
	searcher := &fakeSearcher{}
	m := NewManager(searcher, WithDebounce(time.Hour))

	genre := "Fiction"
	m.UpdateFilters(FilterPatch{Genre: &genre})

	assert.Equal(t, 1, searcher.callCount())
	assert.Equal(t, "Fiction", m.State().Filters.Genre)
}

func TestManager_TextSearchDebounced(t *testing.T) {
	searcher := &fakeSearcher{}
	m := NewManager(searcher, WithDebounce(20*time.Millisecond))

	for _, typed := range []string{"d", "du", "dun", "dune"} {
		term := typed
		m.UpdateFilters(FilterPatch{Search: &term})
	}

	assert.Equal(t, 0, searcher.callCount())
	assert.Eventually(t, func() bool {
		return searcher.callCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "dune", m.State().Filters.Search)
}

func TestManager_NonTextChangeCancelsPendingDebounce(t *testing.T) {
	searcher := &fakeSearcher{}
	m := NewManager(searcher, WithDebounce(30*time.Millisecond))

	term := "dune"
	m.UpdateFilters(FilterPatch{Search: &term})
	m.UpdateSort(SortPatch{Field: ptr(SortByTitle)})

	time.Sleep(60 * time.Millisecond)
	// Only the sort change fired; the pending text fetch was superseded.
	assert.Equal(t, 1, searcher.callCount())
}

func TestManager_FilterChangeResetsPage(t *testing.T) {
	searcher := &fakeSearcher{}
	m := NewManager(searcher)

	m.UpdatePage(4)
	require.Equal(t, 4, m.State().Page)

	genre := "Fantasy"
	m.UpdateFilters(FilterPatch{Genre: &genre})

	assert.Equal(t, DefaultPage, m.State().Page)
}

func TestManager_SearchErrorClearsResults(t *testing.T) {
	searcher := &fakeSearcher{
		results: []entities.Book{{Title: "Dune"}},
		total:   1,
	}
	m := NewManager(searcher)
	m.Refresh()
	require.Equal(t, int64(1), m.State().TotalCount)

	searcher.mu.Lock()
	searcher.err = errors.New("disk I/O error")
	searcher.mu.Unlock()
	m.Refresh()

	s := m.State()
	assert.Equal(t, "disk I/O error", s.Err)
	assert.Empty(t, s.Results)
	assert.Zero(t, s.TotalCount)
	assert.False(t, s.IsLoading)
}

func TestManager_ClearFiltersResetsEverything(t *testing.T) {
	searcher := &fakeSearcher{}
	m := NewManager(searcher)

	genre := "Fiction"
	m.UpdateFilters(FilterPatch{Genre: &genre})
	m.UpdateSort(SortPatch{Field: ptr(SortByRating)})
	m.UpdatePage(3)

	m.ClearFilters()

	s := m.State()
	assert.True(t, s.Filters.IsDefault())
	assert.Equal(t, DefaultSort(), s.Sort)
	assert.Equal(t, DefaultPage, s.Page)
	assert.False(t, HasActiveFilters(s.Filters, s.Sort))
}

func TestManager_QueryStringRoundTrip(t *testing.T) {
	searcher := &fakeSearcher{}
	m := NewManager(searcher)

	genre := "Fiction"
	m.UpdateFilters(FilterPatch{Genre: &genre})
	m.UpdateSort(SortPatch{Field: ptr(SortByTitle), Direction: ptr(SortAsc)})

	m2 := NewManager(&fakeSearcher{})
	m2.SetFromQuery(mustParseQuery(t, m.QueryString()))

	assert.True(t, m.State().Filters.Equal(m2.State().Filters))
	assert.Equal(t, m.State().Sort, m2.State().Sort)
}

func TestManager_Stats(t *testing.T) {
	searcher := &fakeSearcher{
		results: []entities.Book{
			{Title: "Dune", Status: entities.StatusFinished, Rating: 5, Genre: entities.Genre{Name: "Science Fiction"}},
			{Title: "Hyperion", Status: entities.StatusReading, Rating: 4, Genre: entities.Genre{Name: "Science Fiction"}},
			{Title: "Emma", Status: entities.StatusFinished, Rating: 0, Genre: entities.Genre{Name: "Romance"}},
		},
		total: 3,
	}
	m := NewManager(searcher)
	genre := "x"
	m.UpdateFilters(FilterPatch{Genre: &genre})

	rs := m.Stats()
	assert.Equal(t, int64(3), rs.Total)
	assert.Equal(t, 3, rs.Showing)
	assert.Equal(t, 2, rs.GenreDistribution["Science Fiction"])
	assert.Equal(t, 1, rs.GenreDistribution["Romance"])
	assert.Equal(t, 2, rs.StatusDistribution[string(entities.StatusFinished)])
	// Unrated books are excluded from the average: (5+4)/2.
	assert.Equal(t, 4.5, rs.AverageRating)
	assert.True(t, rs.HasActiveFilters)
}

func TestManager_Presets(t *testing.T) {
	searcher := &fakeSearcher{}
	store := NewMemoryPresetStore()
	m := NewManager(searcher, WithPresetStore(store))
	ctx := context.Background()

	genre := "Fantasy"
	m.UpdateFilters(FilterPatch{Genre: &genre})
	m.UpdateSort(SortPatch{Field: ptr(SortByRating)})
	m.UpdatePage(5)

	preset, err := m.SaveCurrentFilter(ctx, "high fantasy")
	require.NoError(t, err)
	assert.NotEmpty(t, preset.ID)
	assert.Equal(t, "Fantasy", preset.Filters.Genre)
	assert.Equal(t, SortByRating, preset.Sort.Field)

	m.ClearFilters()
	require.True(t, m.State().Filters.IsDefault())

	m.ApplySavedFilter(preset)
	s := m.State()
	assert.Equal(t, "Fantasy", s.Filters.Genre)
	assert.Equal(t, SortByRating, s.Sort.Field)
	// Pagination is never part of a preset.
	assert.Equal(t, DefaultPage, s.Page)

	saved, err := m.SavedFilters(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	require.NoError(t, m.RemoveSavedFilter(ctx, preset.ID))
	saved, err = m.SavedFilters(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestManager_SaveCurrentFilter_RequiresName(t *testing.T) {
	m := NewManager(&fakeSearcher{}, WithPresetStore(NewMemoryPresetStore()))

	_, err := m.SaveCurrentFilter(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrPresetNameRequired)
}

func TestPushRecent(t *testing.T) {
	recent := []string{"orwell", "austen"}

	recent = PushRecent(recent, "tolkien", MaxRecentSearches)
	assert.Equal(t, []string{"tolkien", "orwell", "austen"}, recent)

	// Re-searching an existing term moves it to the front.
	recent = PushRecent(recent, "Austen", MaxRecentSearches)
	assert.Equal(t, []string{"Austen", "tolkien", "orwell"}, recent)

	// Blank terms are ignored.
	assert.Equal(t, recent, PushRecent(recent, "  ", MaxRecentSearches))

	capped := PushRecent([]string{"a", "b"}, "c", 2)
	assert.Equal(t, []string{"c", "a"}, capped)
}

func ptr[T any](v T) *T { return &v }

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	params, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return params
}
