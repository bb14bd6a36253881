package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQuery_DefaultsProduceEmptyQuery(t *testing.T) {
	params := EncodeQuery(DefaultFilters(), DefaultSort(), DefaultPage, DefaultLimit)

	assert.Empty(t, params.Encode())
}

func TestEncodeQuery_OmitsDefaultRangeBounds(t *testing.T) {
	f := DefaultFilters()
	f.Rating.Min = 3
	f.Pages.Max = 500

	params := EncodeQuery(f, DefaultSort(), DefaultPage, DefaultLimit)

	assert.Equal(t, "3", params.Get("minRating"))
	assert.Equal(t, "500", params.Get("maxPages"))
	assert.False(t, params.Has("maxRating"))
	assert.False(t, params.Has("minPages"))
	assert.False(t, params.Has("minYear"))
	assert.False(t, params.Has("maxYear"))
}

func TestEncodeQuery_StatusCommaJoined(t *testing.T) {
	f := DefaultFilters()
	f.Status = []string{"READING", "PAUSED"}

	params := EncodeQuery(f, DefaultSort(), DefaultPage, DefaultLimit)

	assert.Equal(t, "READING,PAUSED", params.Get("status"))
}

func TestQuery_RoundTrip(t *testing.T) {
	f := DefaultFilters()
	f.Search = "dune"
	f.Genre = "Science Fiction"
	f.Author = "Herbert"
	f.Status = []string{"FINISHED", "READING"}
	f.Rating = Range{Min: 2, Max: 4}
	f.Year = Range{Min: 1950, Max: 1990}
	f.Pages = Range{Min: 100, Max: 800}
	sort := SortOption{Field: SortByRating, Direction: SortAsc}

	params := EncodeQuery(f, sort, 3, 50)
	gotF, gotSort, gotPage, gotLimit := DecodeQuery(params)

	assert.True(t, f.Equal(gotF))
	assert.Equal(t, sort, gotSort)
	assert.Equal(t, 3, gotPage)
	assert.Equal(t, 50, gotLimit)
}

func TestDecodeQuery_UnknownSortFallsBackSilently(t *testing.T) {
	params, err := url.ParseQuery("sortBy=isbn&sortDir=sideways")
	require.NoError(t, err)

	_, sort, _, _ := DecodeQuery(params)

	assert.Equal(t, DefaultSort(), sort)
}

func TestDecodeQuery_MalformedNumbersDefault(t *testing.T) {
	params, err := url.ParseQuery("minRating=abc&page=-2&limit=0")
	require.NoError(t, err)

	f, _, page, limit := DecodeQuery(params)

	assert.Equal(t, RatingMin, f.Rating.Min)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)
}

func TestDecodeQuery_LimitClamped(t *testing.T) {
	params, err := url.ParseQuery("limit=500")
	require.NoError(t, err)

	_, _, _, limit := DecodeQuery(params)

	assert.Equal(t, MaxLimit, limit)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC", DefaultSort().OrderClause())
	assert.Equal(t, "title ASC", SortOption{Field: SortByTitle, Direction: SortAsc}.OrderClause())
	assert.Equal(t, "created_at DESC", SortOption{Field: "bogus", Direction: "up"}.OrderClause())
}
