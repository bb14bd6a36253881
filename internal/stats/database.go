package stats

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"bookshelf/internal/entities"
)

const (
	recentBooksLimit = 5
	topGenresLimit   = 5
	topRatedLimit    = 5
)

// DatabaseProvider computes real stats from the live database. The
// connectivity probe and the aggregate queries run under separate
// timeouts so a hung database degrades to the next provider quickly.
type DatabaseProvider struct {
	db             *gorm.DB
	connectTimeout time.Duration
	queryTimeout   time.Duration
}

func NewDatabaseProvider(db *gorm.DB, connectTimeout, queryTimeout time.Duration) *DatabaseProvider {
	return &DatabaseProvider{
		db:             db,
		connectTimeout: connectTimeout,
		queryTimeout:   queryTimeout,
	}
}

func (p *DatabaseProvider) Collect(ctx context.Context) (*Snapshot, error) {
	if err := p.ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()
	db := p.db.WithContext(queryCtx)

	var total int64
	if err := db.Model(&entities.Book{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}
	if total == 0 {
		return &Snapshot{
			Stats: DashboardStats{
				RecentBooks: []entities.Book{},
				TopGenres:   []GenreCount{},
				TopRated:    []entities.Book{},
			},
			Tier: TierEmpty,
		}, nil
	}

	stats := DashboardStats{TotalBooks: total}

	if err := p.collectCore(db, &stats); err != nil {
		return nil, err
	}

	// Top lists are decoration: a failure degrades them to empty rather
	// than failing the whole snapshot.
	stats.RecentBooks = p.recentBooks(db)
	stats.TopGenres = p.topGenres(db)
	stats.TopRated = p.topRated(db)

	return &Snapshot{Stats: stats, Tier: TierReal}, nil
}

func (p *DatabaseProvider) ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

func (p *DatabaseProvider) collectCore(db *gorm.DB, stats *DashboardStats) error {
	type statusRow struct {
		Status entities.BookStatus
		Count  int64
	}
	var rows []statusRow
	err := db.Model(&entities.Book{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count statuses: %w", err)
	}
	for _, row := range rows {
		switch row.Status {
		case entities.StatusFinished:
			stats.StatusCounts.Finished = row.Count
		case entities.StatusReading:
			stats.StatusCounts.Reading = row.Count
		case entities.StatusWantToRead:
			stats.StatusCounts.WantToRead = row.Count
		case entities.StatusPaused:
			stats.StatusCounts.Paused = row.Count
		case entities.StatusAbandoned:
			stats.StatusCounts.Abandoned = row.Count
		}
	}

	err = db.Model(&entities.Book{}).
		Select("COUNT(DISTINCT genre_id)").
		Scan(&stats.TotalGenres).Error
	if err != nil {
		return fmt.Errorf("failed to count genres in use: %w", err)
	}

	var avg *float64
	err = db.Model(&entities.Book{}).
		Where("rating > 0").
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return fmt.Errorf("failed to average ratings: %w", err)
	}
	if avg != nil {
		stats.AverageRating = math.Round(*avg*10) / 10
	}

	var totalPages *int64
	err = db.Model(&entities.Book{}).
		Select("SUM(pages)").
		Scan(&totalPages).Error
	if err != nil {
		return fmt.Errorf("failed to sum pages: %w", err)
	}
	if totalPages != nil {
		stats.TotalPages = *totalPages
	}

	// Finished books count in full; in-progress and paused books count
	// their current page.
	var readPages *int64
	err = db.Model(&entities.Book{}).
		Select("SUM(CASE WHEN status = ? THEN pages WHEN status IN ? THEN current_page ELSE 0 END)",
			entities.StatusFinished,
			[]entities.BookStatus{entities.StatusReading, entities.StatusPaused}).
		Scan(&readPages).Error
	if err != nil {
		return fmt.Errorf("failed to sum read pages: %w", err)
	}
	if readPages != nil {
		stats.ReadPages = *readPages
	}

	if stats.TotalPages > 0 {
		stats.ReadingProgress = int64(math.Round(float64(stats.ReadPages) / float64(stats.TotalPages) * 100))
	}

	return nil
}

func (p *DatabaseProvider) recentBooks(db *gorm.DB) []entities.Book {
	var books []entities.Book
	err := db.Preload("Genre").
		Order("created_at DESC").
		Limit(recentBooksLimit).
		Find(&books).Error
	if err != nil {
		log.Printf("failed to load recent books: %v", err)
		return []entities.Book{}
	}
	return books
}

func (p *DatabaseProvider) topGenres(db *gorm.DB) []GenreCount {
	var out []GenreCount
	err := db.Model(&entities.Genre{}).
		Select("genres.id, genres.name, COUNT(books.id) AS book_count").
		Joins("JOIN books ON books.genre_id = genres.id").
		Group("genres.id").
		Order("book_count DESC").
		Limit(topGenresLimit).
		Scan(&out).Error
	if err != nil {
		log.Printf("failed to rank genres: %v", err)
		return []GenreCount{}
	}
	return out
}

func (p *DatabaseProvider) topRated(db *gorm.DB) []entities.Book {
	var books []entities.Book
	err := db.Preload("Genre").
		Where("rating > 0").
		Order("rating DESC, created_at DESC").
		Limit(topRatedLimit).
		Find(&books).Error
	if err != nil {
		log.Printf("failed to load top rated books: %v", err)
		return []entities.Book{}
	}
	return books
}
