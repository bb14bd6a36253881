package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/entities"
)

func TestCategories_Create(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, env.router, http.MethodPost, "/api/categories", gin.H{"name": "Fantasy"})

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, "Fantasy", data["name"])
	assert.NotEmpty(t, data["id"])
}

func TestCategories_Create_Duplicate(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	_, err := env.genres.Create("Fantasy")
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodPost, "/api/categories", gin.H{"name": "fantasy"})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "genre already exists", decodeEnvelope(t, w)["error"])
}

func TestCategories_List(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	genre, err := env.genres.Create("Fiction")
	require.NoError(t, err)
	require.NoError(t, env.books.Create(&entities.Book{Title: "1984", Author: "George Orwell", GenreID: genre.ID}))

	w := doJSON(t, env.router, http.MethodGet, "/api/categories", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]any)
	require.Len(t, data, 1)
	entry := data[0].(map[string]any)
	assert.Equal(t, "Fiction", entry["name"])
	assert.Equal(t, float64(1), entry["bookCount"])
}

func TestCategories_DeleteBlockedWhileInUse(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	genre, err := env.genres.Create("Fiction")
	require.NoError(t, err)
	require.NoError(t, env.books.Create(&entities.Book{Title: "1984", Author: "George Orwell", GenreID: genre.ID}))
	require.NoError(t, env.books.Create(&entities.Book{Title: "Animal Farm", Author: "George Orwell", GenreID: genre.ID}))

	w := doJSON(t, env.router, http.MethodDelete, "/api/categories?id="+genre.ID, nil)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "cannot delete genre: 2 book(s) still reference it", decodeEnvelope(t, w)["error"])

	// The genre must survive the blocked delete.
	_, err = env.genres.FindByID(genre.ID)
	assert.NoError(t, err)
}

func TestCategories_DeleteByName(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	_, err := env.genres.Create("Fiction")
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodDelete, "/api/categories?name=Fiction", nil)

	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, http.MethodDelete, "/api/categories?name=Fiction", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenres_GetWithStats(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	genre, err := env.genres.Create("Fantasy")
	require.NoError(t, err)
	require.NoError(t, env.books.Create(&entities.Book{Title: "The Hobbit", Author: "J.R.R. Tolkien", Pages: 310, Rating: 4, GenreID: genre.ID}))
	require.NoError(t, env.books.Create(&entities.Book{Title: "The Silmarillion", Author: "J.R.R. Tolkien", Pages: 365, Rating: 5, GenreID: genre.ID}))

	w := doJSON(t, env.router, http.MethodGet, "/api/categories/genres/"+genre.ID, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["bookCount"])
	assert.Equal(t, 4.5, data["averageRating"])
	assert.Equal(t, float64(675), data["totalPages"])
}

func TestGenres_Rename(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	genre, err := env.genres.Create("SciFi")
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodPut, "/api/categories/genres/"+genre.ID, gin.H{"name": "Science Fiction"})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, "Science Fiction", data["name"])
}
