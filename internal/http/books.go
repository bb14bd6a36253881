package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/database/books"
	"bookshelf/internal/entities"
	"bookshelf/internal/search"
)

// BookStore is the book persistence interface the controller needs.
type BookStore interface {
	List(filters search.SearchFilters, sort search.SortOption, page, limit int) ([]entities.Book, int64, error)
	Create(book *entities.Book) error
	GetByID(id string) (*entities.Book, error)
	Update(id string, patch books.UpdatePatch) (*entities.Book, error)
	UpdateProgress(id string, currentPage int) (*entities.Book, error)
	UpdateStatus(id string, status entities.BookStatus) (*entities.Book, error)
	Delete(id string) error
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// List handles GET /api/books. Filters, sort and pagination arrive as
// query parameters; unknown values silently fall back to defaults.
func (controller *BooksController) List(c *gin.Context) {
	filters, sort, page, limit := search.DecodeQuery(c.Request.URL.Query())

	result, total, err := controller.store.List(filters, sort, page, limit)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	respondList(c, result, total, page, limit)
}

type createBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Year        int     `json:"year"`
	Pages       int     `json:"pages"`
	Rating      int     `json:"rating"`
	Synopsis    string  `json:"synopsis"`
	Cover       string  `json:"cover"`
	Status      string  `json:"status"`
	CurrentPage int     `json:"currentPage"`
	ISBN        *string `json:"isbn"`
	Notes       *string `json:"notes"`
	GenreID     string  `json:"genreId"`
}

// Create handles POST /api/books.
func (controller *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Title == "" || req.Author == "" || req.GenreID == "" {
		respondBadRequest(c, "title, author and genreId are required")
		return
	}

	book := entities.Book{
		Title:       req.Title,
		Author:      req.Author,
		Year:        req.Year,
		Pages:       req.Pages,
		Rating:      req.Rating,
		Synopsis:    req.Synopsis,
		Cover:       req.Cover,
		Status:      entities.BookStatus(req.Status),
		CurrentPage: req.CurrentPage,
		ISBN:        req.ISBN,
		Notes:       req.Notes,
		GenreID:     req.GenreID,
	}

	if err := controller.store.Create(&book); err != nil {
		switch {
		case errors.Is(err, books.ErrGenreNotFound):
			respondBadRequest(c, "genre not found")
		case errors.Is(err, books.ErrInvalidStatus):
			respondBadRequest(c, "invalid status")
		default:
			respondInternalError(c, err, "create book")
		}
		return
	}
	respondCreated(c, book)
}

// Get handles GET /api/books/:id.
func (controller *BooksController) Get(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.GetByID(id)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	respondOK(c, book)
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Year        *int    `json:"year"`
	Pages       *int    `json:"pages"`
	Rating      *int    `json:"rating"`
	Synopsis    *string `json:"synopsis"`
	Cover       *string `json:"cover"`
	Status      *string `json:"status"`
	CurrentPage *int    `json:"currentPage"`
	ISBN        *string `json:"isbn"`
	Notes       *string `json:"notes"`
	GenreID     *string `json:"genreId"`
}

// Update handles PUT /api/books/:id with partial semantics: absent
// fields are left untouched.
func (controller *BooksController) Update(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	patch := books.UpdatePatch{
		Title:       req.Title,
		Author:      req.Author,
		Year:        req.Year,
		Pages:       req.Pages,
		Rating:      req.Rating,
		Synopsis:    req.Synopsis,
		Cover:       req.Cover,
		CurrentPage: req.CurrentPage,
		ISBN:        req.ISBN,
		Notes:       req.Notes,
		GenreID:     req.GenreID,
	}
	if req.Status != nil {
		status := entities.BookStatus(*req.Status)
		patch.Status = &status
	}

	book, err := controller.store.Update(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrGenreNotFound):
			respondBadRequest(c, "genre not found")
		case errors.Is(err, books.ErrInvalidStatus):
			respondBadRequest(c, "invalid status")
		default:
			respondInternalError(c, err, "update book")
		}
		return
	}
	respondOK(c, book)
}

type progressRequest struct {
	CurrentPage *int `json:"currentPage"`
}

// UpdateProgress handles PATCH /api/books/:id/progress. Reaching the
// last page finishes the book; opening a wishlisted book starts it.
func (controller *BooksController) UpdateProgress(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPage == nil {
		respondBadRequest(c, "currentPage is required")
		return
	}

	book, err := controller.store.UpdateProgress(id, *req.CurrentPage)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update progress")
		return
	}
	respondOK(c, book)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/books/:id/status.
func (controller *BooksController) UpdateStatus(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		respondBadRequest(c, "status is required")
		return
	}

	book, err := controller.store.UpdateStatus(id, entities.BookStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrInvalidStatus):
			respondBadRequest(c, "invalid status")
		default:
			respondInternalError(c, err, "update status")
		}
		return
	}
	respondOK(c, book)
}

// Delete handles DELETE /api/books/:id.
func (controller *BooksController) Delete(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	err := controller.store.Delete(id)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	respondMessage(c, "book deleted")
}
