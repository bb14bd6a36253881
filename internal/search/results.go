package search

import "math"

// ResultStats summarises the currently visible page of results.
type ResultStats struct {
	Total              int64          `json:"total"`
	Showing            int            `json:"showing"`
	GenreDistribution  map[string]int `json:"genreDistribution"`
	StatusDistribution map[string]int `json:"statusDistribution"`
	AverageRating      float64        `json:"averageRating"`
	HasActiveFilters   bool           `json:"hasActiveFilters"`
}

// Stats computes distributions and the average rating over the books on
// the current page. Books without a rating are excluded from the average.
func (m *Manager) Stats() ResultStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	rs := ResultStats{
		Total:              m.state.TotalCount,
		Showing:            len(m.state.Results),
		GenreDistribution:  make(map[string]int),
		StatusDistribution: make(map[string]int),
		HasActiveFilters:   HasActiveFilters(m.state.Filters, m.state.Sort),
	}

	var ratingSum float64
	var rated int
	for _, b := range m.state.Results {
		if b.Genre.Name != "" {
			rs.GenreDistribution[b.Genre.Name]++
		}
		rs.StatusDistribution[string(b.Status)]++
		if b.Rating > 0 {
			ratingSum += float64(b.Rating)
			rated++
		}
	}
	if rated > 0 {
		rs.AverageRating = math.Round(ratingSum/float64(rated)*10) / 10
	}
	return rs
}
