// Package genres provides the repository for genre records and the
// aggregate views the category endpoints expose.
package genres

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"bookshelf/internal/entities"
)

var (
	ErrGenreNotFound  = errors.New("genre not found")
	ErrDuplicateGenre = errors.New("genre already exists")
	ErrNameRequired   = errors.New("genre name is required")
)

// ErrGenreInUse is returned when deletion is blocked by referencing books.
type ErrGenreInUse struct {
	BookCount int64
}

func (e *ErrGenreInUse) Error() string {
	return fmt.Sprintf("genre is in use by %d book(s)", e.BookCount)
}

// GenreWithCount pairs a genre with the number of books referencing it.
type GenreWithCount struct {
	entities.Genre
	BookCount int64 `json:"bookCount"`
}

// GenreStats is the aggregate view of a single genre.
type GenreStats struct {
	Genre         entities.Genre `json:"genre"`
	BookCount     int64          `json:"bookCount"`
	AverageRating float64        `json:"averageRating"`
	TotalPages    int64          `json:"totalPages"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListOptions narrows and orders the genre listing.
type ListOptions struct {
	Search string
	SortBy string // "name" or "bookCount"
	Order  string // "asc" or "desc"
}

// List returns genres with their book counts, optionally filtered by a
// case-insensitive name fragment. Unknown sort options fall back to name
// ascending.
func (r *Repository) List(opts ListOptions) ([]GenreWithCount, error) {
	query := r.db.Model(&entities.Genre{}).
		Select("genres.*, (SELECT COUNT(*) FROM books WHERE books.genre_id = genres.id) AS book_count")

	if opts.Search != "" {
		query = query.Where("LOWER(genres.name) LIKE LOWER(?)", "%"+opts.Search+"%")
	}

	column := "genres.name"
	if opts.SortBy == "bookCount" {
		column = "book_count"
	}
	direction := "ASC"
	if strings.EqualFold(opts.Order, "desc") {
		direction = "DESC"
	}
	query = query.Order(column + " " + direction)

	var out []GenreWithCount
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return out, nil
}

// Create stores a new genre. Names are trimmed and must be unique
// case-insensitively.
func (r *Repository) Create(name string) (*entities.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var count int64
	if err := r.db.Model(&entities.Genre{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check genre name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateGenre
	}

	genre := entities.Genre{Name: name}
	if err := r.db.Create(&genre).Error; err != nil {
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return &genre, nil
}

// FindByID loads a genre by primary key.
func (r *Repository) FindByID(id string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.First(&genre, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGenreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load genre: %w", err)
	}
	return &genre, nil
}

// FindByName loads a genre by exact name, case-insensitively.
func (r *Repository) FindByName(name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGenreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load genre: %w", err)
	}
	return &genre, nil
}

// GetWithStats loads a genre together with its book count, average
// rating over rated books, and total page count.
func (r *Repository) GetWithStats(id string) (*GenreStats, error) {
	genre, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	stats := GenreStats{Genre: *genre}

	if err := r.db.Model(&entities.Book{}).Where("genre_id = ?", id).Count(&stats.BookCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count genre books: %w", err)
	}

	var avg *float64
	err = r.db.Model(&entities.Book{}).
		Where("genre_id = ? AND rating > 0", id).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average genre rating: %w", err)
	}
	if avg != nil {
		stats.AverageRating = math.Round(*avg*10) / 10
	}

	var pages *int64
	err = r.db.Model(&entities.Book{}).
		Where("genre_id = ?", id).
		Select("SUM(pages)").
		Scan(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum genre pages: %w", err)
	}
	if pages != nil {
		stats.TotalPages = *pages
	}

	return &stats, nil
}

// Rename changes a genre's name, enforcing the same uniqueness rule as
// Create.
func (r *Repository) Rename(id, name string) (*entities.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	genre, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	var count int64
	err = r.db.Model(&entities.Genre{}).
		Where("LOWER(name) = LOWER(?) AND id != ?", name, id).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check genre name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateGenre
	}

	genre.Name = name
	if err := r.db.Save(genre).Error; err != nil {
		return nil, fmt.Errorf("failed to rename genre: %w", err)
	}
	return genre, nil
}

// CountBooks returns how many books reference the genre.
func (r *Repository) CountBooks(id string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("genre_id = ?", id).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count genre books: %w", err)
	}
	return count, nil
}

// Delete removes a genre. Deletion is refused while books reference it;
// the returned error carries the count for the caller's message.
func (r *Repository) Delete(id string) error {
	if _, err := r.FindByID(id); err != nil {
		return err
	}

	count, err := r.CountBooks(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ErrGenreInUse{BookCount: count}
	}

	if err := r.db.Delete(&entities.Genre{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}
	return nil
}

// TopByBookCount returns the most used genres, largest first. Genres with
// no books are excluded.
func (r *Repository) TopByBookCount(limit int) ([]GenreWithCount, error) {
	var out []GenreWithCount
	err := r.db.Model(&entities.Genre{}).
		Select("genres.*, COUNT(books.id) AS book_count").
		Joins("JOIN books ON books.genre_id = genres.id").
		Group("genres.id").
		Order("book_count DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank genres: %w", err)
	}
	return out, nil
}

// DeleteOrphans removes genres no book references and returns how many
// were deleted. Used by the periodic cleanup task.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Where("id NOT IN (SELECT DISTINCT genre_id FROM books WHERE genre_id IS NOT NULL)").
		Delete(&entities.Genre{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete orphan genres: %w", result.Error)
	}
	return result.RowsAffected, nil
}
