// Package search implements the query a user composes against the book
// collection: filter criteria, sort order and pagination, their URL
// representation, debounced execution against a listing backend, and
// locally persisted filter presets.
package search

import (
	"time"
)

// Range is an inclusive numeric constraint.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SearchFilters is the set of constraints a listing query is narrowed by.
// A field holding its default value expresses no constraint.
type SearchFilters struct {
	Search string   `json:"search"`
	Genre  string   `json:"genre"`
	Status []string `json:"status"`
	Rating Range    `json:"rating"`
	Year   Range    `json:"year"`
	Author string   `json:"author"`
	Pages  Range    `json:"pages"`
}

// Filter range defaults. A range equal to its default is the full range
// and is omitted from URLs and lowered queries.
const (
	RatingMin = 0
	RatingMax = 5
	YearMin   = 1900
	PagesMin  = 0
	PagesMax  = 2000
)

// YearMax returns the upper bound of the default year range, which moves
// with the calendar.
func YearMax() int {
	return time.Now().Year()
}

// DefaultFilters returns the documented filter defaults: empty search, no
// genre/status/author constraints, rating 0-5, year 1900-current, pages 0-2000.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		Rating: Range{Min: RatingMin, Max: RatingMax},
		Year:   Range{Min: YearMin, Max: YearMax()},
		Pages:  Range{Min: PagesMin, Max: PagesMax},
	}
}

// Equal reports whether two filter sets express the same constraints.
func (f SearchFilters) Equal(other SearchFilters) bool {
	if f.Search != other.Search || f.Genre != other.Genre || f.Author != other.Author {
		return false
	}
	if f.Rating != other.Rating || f.Year != other.Year || f.Pages != other.Pages {
		return false
	}
	if len(f.Status) != len(other.Status) {
		return false
	}
	for i := range f.Status {
		if f.Status[i] != other.Status[i] {
			return false
		}
	}
	return true
}

// IsDefault reports whether no filter field deviates from its default.
func (f SearchFilters) IsDefault() bool {
	return f.Equal(DefaultFilters())
}

// FilterPatch carries partial filter changes. Nil fields are left untouched
// by Merge.
type FilterPatch struct {
	Search *string
	Genre  *string
	Status []string
	Rating *Range
	Year   *Range
	Author *string
	Pages  *Range
}

// Merge applies the patch on top of f and returns the result.
func (f SearchFilters) Merge(p FilterPatch) SearchFilters {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Genre != nil {
		f.Genre = *p.Genre
	}
	if p.Status != nil {
		f.Status = p.Status
	}
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	if p.Year != nil {
		f.Year = *p.Year
	}
	if p.Author != nil {
		f.Author = *p.Author
	}
	if p.Pages != nil {
		f.Pages = *p.Pages
	}
	return f
}

// searchOnly reports whether the patch touches nothing but the free-text
// query. Such changes are debounced; everything else fetches immediately.
func (p FilterPatch) searchOnly() bool {
	return p.Search != nil &&
		p.Genre == nil && p.Status == nil && p.Rating == nil &&
		p.Year == nil && p.Author == nil && p.Pages == nil
}
