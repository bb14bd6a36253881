// Package stats aggregates the reading dashboard: collection totals,
// progress, recent additions and top lists. Collection runs through a
// ranked chain of providers so the dashboard always renders something,
// even when the database is unreachable.
package stats

import "bookshelf/internal/entities"

// Tier identifies where a stats snapshot came from.
type Tier string

const (
	// TierReal means the snapshot was computed from the live database.
	TierReal Tier = "real"
	// TierEmpty means the database is reachable but holds no books.
	TierEmpty Tier = "empty"
	// TierDemo means the snapshot is canned demonstration data.
	TierDemo Tier = "demo"
)

// StatusCounts breaks the collection down by reading status.
type StatusCounts struct {
	Finished   int64 `json:"finished"`
	Reading    int64 `json:"reading"`
	WantToRead int64 `json:"wantToRead"`
	Paused     int64 `json:"paused"`
	Abandoned  int64 `json:"abandoned"`
}

// GenreCount is one entry of the most-used-genres ranking.
type GenreCount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"bookCount"`
}

// DashboardStats is the full dashboard payload.
type DashboardStats struct {
	TotalBooks      int64           `json:"totalBooks"`
	TotalGenres     int64           `json:"totalGenres"`
	StatusCounts    StatusCounts    `json:"statusCounts"`
	AverageRating   float64         `json:"averageRating"`
	TotalPages      int64           `json:"totalPages"`
	ReadPages       int64           `json:"readPages"`
	ReadingProgress int64           `json:"readingProgress"`
	RecentBooks     []entities.Book `json:"recentBooks"`
	TopGenres       []GenreCount    `json:"topGenres"`
	TopRated        []entities.Book `json:"topRated"`
}

// Snapshot pairs the stats with their provenance. Fallback is set when a
// higher-ranked provider failed and a lower tier answered instead.
type Snapshot struct {
	Stats    DashboardStats `json:"stats"`
	Tier     Tier           `json:"tier"`
	Fallback bool           `json:"fallback"`
}
