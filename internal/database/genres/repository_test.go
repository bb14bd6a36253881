package genres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_genres_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Genre{},
		&entities.Book{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func addBook(t *testing.T, db *gorm.DB, genreID, title string, pages, rating int) {
	t.Helper()
	book := entities.Book{Title: title, Author: "Author", Pages: pages, Rating: rating, GenreID: genreID}
	require.NoError(t, db.Create(&book).Error)
}

func TestRepository_Create(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.Create("  Science Fiction  ")

	require.NoError(t, err)
	assert.NotEmpty(t, genre.ID)
	assert.Equal(t, "Science Fiction", genre.Name)
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Fantasy")
	require.NoError(t, err)

	_, err = repo.Create("fantasy")

	assert.ErrorIs(t, err, ErrDuplicateGenre)
}

func TestRepository_Create_EmptyName(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("   ")

	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestRepository_List(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	fiction, err := repo.Create("Fiction")
	require.NoError(t, err)
	fantasy, err := repo.Create("Fantasy")
	require.NoError(t, err)
	_, err = repo.Create("Romance")
	require.NoError(t, err)

	addBook(t, db, fiction.ID, "1984", 328, 5)
	addBook(t, db, fantasy.ID, "The Hobbit", 310, 4)
	addBook(t, db, fantasy.ID, "The Fellowship of the Ring", 423, 5)

	t.Run("includes book counts", func(t *testing.T) {
		got, err := repo.List(ListOptions{})
		require.NoError(t, err)
		require.Len(t, got, 3)

		byName := map[string]int64{}
		for _, g := range got {
			byName[g.Name] = g.BookCount
		}
		assert.Equal(t, int64(2), byName["Fantasy"])
		assert.Equal(t, int64(1), byName["Fiction"])
		assert.Equal(t, int64(0), byName["Romance"])
	})

	t.Run("search narrows by name fragment", func(t *testing.T) {
		got, err := repo.List(ListOptions{Search: "fan"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Fantasy", got[0].Name)
	})

	t.Run("sort by book count descending", func(t *testing.T) {
		got, err := repo.List(ListOptions{SortBy: "bookCount", Order: "desc"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Fantasy", got[0].Name)
	})
}

func TestRepository_GetWithStats(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.Create("Fantasy")
	require.NoError(t, err)
	addBook(t, db, genre.ID, "The Hobbit", 310, 4)
	addBook(t, db, genre.ID, "The Fellowship of the Ring", 423, 5)
	addBook(t, db, genre.ID, "Unrated", 100, 0)

	stats, err := repo.GetWithStats(genre.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.BookCount)
	// Unrated books are excluded from the average: (4+5)/2.
	assert.Equal(t, 4.5, stats.AverageRating)
	assert.Equal(t, int64(833), stats.TotalPages)
}

func TestRepository_Rename(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.Create("SciFi")
	require.NoError(t, err)
	_, err = repo.Create("Fantasy")
	require.NoError(t, err)

	renamed, err := repo.Rename(genre.ID, "Science Fiction")
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", renamed.Name)

	_, err = repo.Rename(genre.ID, "fantasy")
	assert.ErrorIs(t, err, ErrDuplicateGenre)
}

func TestRepository_Delete_BlockedWhileInUse(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.Create("Fiction")
	require.NoError(t, err)
	addBook(t, db, genre.ID, "1984", 328, 5)
	addBook(t, db, genre.ID, "Animal Farm", 112, 4)

	err = repo.Delete(genre.ID)

	var inUse *ErrGenreInUse
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, int64(2), inUse.BookCount)

	// The genre must survive a blocked delete.
	_, err = repo.FindByID(genre.ID)
	assert.NoError(t, err)
}

func TestRepository_Delete(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.Create("Fiction")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(genre.ID))

	_, err = repo.FindByID(genre.ID)
	assert.ErrorIs(t, err, ErrGenreNotFound)

	assert.ErrorIs(t, repo.Delete(genre.ID), ErrGenreNotFound)
}

func TestRepository_TopByBookCount(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	fantasy, err := repo.Create("Fantasy")
	require.NoError(t, err)
	fiction, err := repo.Create("Fiction")
	require.NoError(t, err)
	_, err = repo.Create("Empty")
	require.NoError(t, err)

	addBook(t, db, fantasy.ID, "A", 100, 0)
	addBook(t, db, fantasy.ID, "B", 100, 0)
	addBook(t, db, fiction.ID, "C", 100, 0)

	top, err := repo.TopByBookCount(5)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Fantasy", top[0].Name)
	assert.Equal(t, int64(2), top[0].BookCount)
}

func TestRepository_DeleteOrphans(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	used, err := repo.Create("Used")
	require.NoError(t, err)
	_, err = repo.Create("Orphan A")
	require.NoError(t, err)
	_, err = repo.Create("Orphan B")
	require.NoError(t, err)

	addBook(t, db, used.ID, "1984", 328, 5)

	deleted, err := repo.DeleteOrphans()

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Used", remaining[0].Name)
}
