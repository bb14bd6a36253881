package demo

import (
	"context"
	"time"

	"bookshelf/internal/entities"
	"bookshelf/internal/stats"
)

// Fixed identifiers keep the canned dataset stable across requests.
const (
	genreFantasyID = "demo-genre-fantasy"
	genreFictionID = "demo-genre-fiction"
	genreRomanceID = "demo-genre-romance"
)

func demoBooks() []entities.Book {
	created := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	return []entities.Book{
		{
			ID:     "demo-book-lotr",
			Title:  "The Lord of the Rings",
			Author: "J.R.R. Tolkien",
			Year:   1954, Pages: 1216, Rating: 5,
			Status: entities.StatusFinished, CurrentPage: 1216,
			GenreID:   genreFantasyID,
			Genre:     entities.Genre{ID: genreFantasyID, Name: "Fantasy"},
			CreatedAt: created.Add(48 * time.Hour),
		},
		{
			ID:     "demo-book-1984",
			Title:  "1984",
			Author: "George Orwell",
			Year:   1949, Pages: 328, Rating: 5,
			Status: entities.StatusReading, CurrentPage: 256,
			GenreID:   genreFictionID,
			Genre:     entities.Genre{ID: genreFictionID, Name: "Fiction"},
			CreatedAt: created.Add(24 * time.Hour),
		},
		{
			ID:     "demo-book-pride",
			Title:  "Pride and Prejudice",
			Author: "Jane Austen",
			Year:   1813, Pages: 360, Rating: 3,
			Status: entities.StatusWantToRead,
			GenreID:   genreRomanceID,
			Genre:     entities.Genre{ID: genreRomanceID, Name: "Romance"},
			CreatedAt: created,
		},
	}
}

// Stats returns the canned dashboard dataset: a small believable
// collection so the dashboard never renders blank while the database is
// down.
func Stats() stats.DashboardStats {
	books := demoBooks()

	rated := []entities.Book{}
	for _, b := range books {
		if b.Rating > 0 {
			rated = append(rated, b)
		}
	}

	return stats.DashboardStats{
		TotalBooks:  3,
		TotalGenres: 3,
		StatusCounts: stats.StatusCounts{
			Finished:   1,
			Reading:    1,
			WantToRead: 1,
		},
		AverageRating:   4.3,
		TotalPages:      1904,
		ReadPages:       1472,
		ReadingProgress: 77,
		RecentBooks:     books,
		TopGenres: []stats.GenreCount{
			{ID: genreFantasyID, Name: "Fantasy", BookCount: 1},
			{ID: genreFictionID, Name: "Fiction", BookCount: 1},
			{ID: genreRomanceID, Name: "Romance", BookCount: 1},
		},
		TopRated: rated,
	}
}

// StatsProvider is the last-resort stats source. It never fails.
type StatsProvider struct{}

func NewStatsProvider() *StatsProvider {
	return &StatsProvider{}
}

func (p *StatsProvider) Collect(_ context.Context) (*stats.Snapshot, error) {
	return &stats.Snapshot{
		Stats: Stats(),
		Tier:  stats.TierDemo,
	}, nil
}
