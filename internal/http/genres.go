package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/database/genres"
	"bookshelf/internal/entities"
)

// GenreStore is the genre persistence interface the controller needs.
type GenreStore interface {
	List(opts genres.ListOptions) ([]genres.GenreWithCount, error)
	Create(name string) (*entities.Genre, error)
	FindByID(id string) (*entities.Genre, error)
	FindByName(name string) (*entities.Genre, error)
	GetWithStats(id string) (*genres.GenreStats, error)
	Rename(id, name string) (*entities.Genre, error)
	Delete(id string) error
}

type GenresController struct {
	store GenreStore
}

func NewGenresController(store GenreStore) *GenresController {
	return &GenresController{store: store}
}

// ListCategories handles GET /api/categories: the flat category list
// with book counts.
func (controller *GenresController) ListCategories(c *gin.Context) {
	result, err := controller.store.List(genres.ListOptions{})
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	respondOK(c, result)
}

type createGenreRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /api/categories.
func (controller *GenresController) CreateCategory(c *gin.Context) {
	var req createGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	genre, err := controller.store.Create(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, genres.ErrNameRequired):
			respondBadRequest(c, "name is required")
		case errors.Is(err, genres.ErrDuplicateGenre):
			respondConflict(c, "genre already exists")
		default:
			respondInternalError(c, err, "create category")
		}
		return
	}
	respondCreated(c, genre)
}

// DeleteCategory handles DELETE /api/categories?id=|?name=. Deletion is
// refused while books reference the genre; the error message carries the
// count so the client can explain the refusal.
func (controller *GenresController) DeleteCategory(c *gin.Context) {
	id := c.Query("id")
	name := c.Query("name")
	if id == "" && name == "" {
		respondBadRequest(c, "id or name query parameter is required")
		return
	}

	if id == "" {
		genre, err := controller.store.FindByName(name)
		if errors.Is(err, genres.ErrGenreNotFound) {
			respondNotFound(c, "genre")
			return
		}
		if err != nil {
			respondInternalError(c, err, "delete category")
			return
		}
		id = genre.ID
	}

	controller.deleteByID(c, id)
}

// ListGenres handles GET /api/categories/genres: the richer listing with
// optional search, sorting and per-genre stats.
func (controller *GenresController) ListGenres(c *gin.Context) {
	opts := genres.ListOptions{
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
	}

	result, err := controller.store.List(opts)
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	respondOK(c, result)
}

// GetGenre handles GET /api/categories/genres/:genre, returning the
// genre with its aggregate stats.
func (controller *GenresController) GetGenre(c *gin.Context) {
	id, ok := requireIDParam(c, "genre")
	if !ok {
		return
	}

	stats, err := controller.store.GetWithStats(id)
	if errors.Is(err, genres.ErrGenreNotFound) {
		respondNotFound(c, "genre")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get genre")
		return
	}
	respondOK(c, stats)
}

// RenameGenre handles PUT /api/categories/genres/:genre.
func (controller *GenresController) RenameGenre(c *gin.Context) {
	id, ok := requireIDParam(c, "genre")
	if !ok {
		return
	}

	var req createGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	genre, err := controller.store.Rename(id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, genres.ErrGenreNotFound):
			respondNotFound(c, "genre")
		case errors.Is(err, genres.ErrNameRequired):
			respondBadRequest(c, "name is required")
		case errors.Is(err, genres.ErrDuplicateGenre):
			respondConflict(c, "genre already exists")
		default:
			respondInternalError(c, err, "rename genre")
		}
		return
	}
	respondOK(c, genre)
}

// DeleteGenre handles DELETE /api/categories/genres/:genre.
func (controller *GenresController) DeleteGenre(c *gin.Context) {
	id, ok := requireIDParam(c, "genre")
	if !ok {
		return
	}
	controller.deleteByID(c, id)
}

func (controller *GenresController) deleteByID(c *gin.Context, id string) {
	err := controller.store.Delete(id)
	if err == nil {
		respondMessage(c, "genre deleted")
		return
	}

	var inUse *genres.ErrGenreInUse
	switch {
	case errors.As(err, &inUse):
		respondConflict(c, fmt.Sprintf("cannot delete genre: %d book(s) still reference it", inUse.BookCount))
	case errors.Is(err, genres.ErrGenreNotFound):
		respondNotFound(c, "genre")
	default:
		respondInternalError(c, err, "delete genre")
	}
}
