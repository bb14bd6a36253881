// Package books provides the repository for book records, including the
// filtered listing that backs search and the reading-progress updates.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookshelf/internal/entities"
	"bookshelf/internal/search"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrGenreNotFound = errors.New("genre not found")
	ErrInvalidStatus = errors.New("invalid status")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the page of books matching the filters, ordered by the
// sort option, together with the total match count before pagination.
func (r *Repository) List(filters search.SearchFilters, sort search.SortOption, page, limit int) ([]entities.Book, int64, error) {
	if page < 1 {
		page = search.DefaultPage
	}
	if limit < 1 {
		limit = search.DefaultLimit
	}
	if limit > search.MaxLimit {
		limit = search.MaxLimit
	}

	var total int64
	err := search.Lower(r.db.Model(&entities.Book{}), filters.Conditions()).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var books []entities.Book
	err = search.Lower(r.db.Model(&entities.Book{}), filters.Conditions()).
		Preload("Genre").
		Order(sort.OrderClause()).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	return books, total, nil
}

// Search implements search.Searcher.
func (r *Repository) Search(filters search.SearchFilters, sort search.SortOption, page, limit int) ([]entities.Book, int64, error) {
	return r.List(filters, sort, page, limit)
}

// Create stores a new book after checking the referenced genre exists.
func (r *Repository) Create(book *entities.Book) error {
	if err := r.genreExists(book.GenreID); err != nil {
		return err
	}
	if book.Status == "" {
		book.Status = entities.StatusWantToRead
	}
	if !book.Status.Valid() {
		return ErrInvalidStatus
	}

	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return r.db.Preload("Genre").First(book, "id = ?", book.ID).Error
}

// GetByID loads a book with its genre.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Genre").First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	return &book, nil
}

// UpdatePatch carries partial book changes. Nil fields are left untouched.
type UpdatePatch struct {
	Title       *string
	Author      *string
	Year        *int
	Pages       *int
	Rating      *int
	Synopsis    *string
	Cover       *string
	Status      *entities.BookStatus
	CurrentPage *int
	ISBN        *string
	Notes       *string
	GenreID     *string
}

// Update applies a partial update. A changed genre reference is validated
// and the current page is clamped to the (possibly new) page count.
func (r *Repository) Update(id string, patch UpdatePatch) (*entities.Book, error) {
	book, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.GenreID != nil && *patch.GenreID != book.GenreID {
		if err := r.genreExists(*patch.GenreID); err != nil {
			return nil, err
		}
		book.GenreID = *patch.GenreID
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		book.Status = *patch.Status
	}
	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Year != nil {
		book.Year = *patch.Year
	}
	if patch.Pages != nil {
		book.Pages = *patch.Pages
	}
	if patch.Rating != nil {
		book.Rating = *patch.Rating
	}
	if patch.Synopsis != nil {
		book.Synopsis = *patch.Synopsis
	}
	if patch.Cover != nil {
		book.Cover = *patch.Cover
	}
	if patch.CurrentPage != nil {
		book.CurrentPage = *patch.CurrentPage
	}
	if patch.ISBN != nil {
		book.ISBN = patch.ISBN
	}
	if patch.Notes != nil {
		book.Notes = patch.Notes
	}

	if book.Pages > 0 && book.CurrentPage > book.Pages {
		book.CurrentPage = book.Pages
	}
	if book.CurrentPage < 0 {
		book.CurrentPage = 0
	}

	if err := r.db.Save(book).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return r.GetByID(id)
}

// UpdateProgress sets the current page and advances the status when the
// new position implies it: reaching the last page finishes the book, and
// opening a wishlisted book starts it.
func (r *Repository) UpdateProgress(id string, currentPage int) (*entities.Book, error) {
	book, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if currentPage < 0 {
		currentPage = 0
	}
	if book.Pages > 0 && currentPage > book.Pages {
		currentPage = book.Pages
	}
	book.CurrentPage = currentPage

	switch {
	case book.Pages > 0 && currentPage >= book.Pages:
		book.Status = entities.StatusFinished
	case currentPage > 0 && book.Status == entities.StatusWantToRead:
		book.Status = entities.StatusReading
	}

	if err := r.db.Save(book).Error; err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return book, nil
}

// UpdateStatus sets the reading status directly, without touching the
// current page.
func (r *Repository) UpdateStatus(id string, status entities.BookStatus) (*entities.Book, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	book, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	book.Status = status
	if err := r.db.Save(book).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return book, nil
}

// Delete removes a book.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&entities.Book{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// InProgress returns the books currently being read or paused, most
// recently touched first.
func (r *Repository) InProgress() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Preload("Genre").
		Where("status IN ?", []entities.BookStatus{entities.StatusReading, entities.StatusPaused}).
		Order("updated_at DESC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books in progress: %w", err)
	}
	return books, nil
}

func (r *Repository) genreExists(genreID string) error {
	if genreID == "" {
		return ErrGenreNotFound
	}
	var count int64
	if err := r.db.Model(&entities.Genre{}).Where("id = ?", genreID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check genre: %w", err)
	}
	if count == 0 {
		return ErrGenreNotFound
	}
	return nil
}
