package stats

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_stats_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Genre{},
		&entities.Book{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func seedGenre(t *testing.T, db *gorm.DB, name string) entities.Genre {
	t.Helper()
	genre := entities.Genre{Name: name}
	require.NoError(t, db.Create(&genre).Error)
	return genre
}

func newProvider(db *gorm.DB) *DatabaseProvider {
	return NewDatabaseProvider(db, 3*time.Second, 5*time.Second)
}

func TestDatabaseProvider_EmptyCollection(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	snap, err := newProvider(db).Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, TierEmpty, snap.Tier)
	assert.False(t, snap.Fallback)
	assert.Zero(t, snap.Stats.TotalBooks)
	assert.Zero(t, snap.Stats.ReadingProgress)
	assert.NotNil(t, snap.Stats.RecentBooks)
	assert.Empty(t, snap.Stats.RecentBooks)
}

func TestDatabaseProvider_Aggregates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	scifi := seedGenre(t, db, "Science Fiction")
	romance := seedGenre(t, db, "Romance")

	require.NoError(t, db.Create(&entities.Book{
		Title: "Dune", Author: "Frank Herbert", Pages: 300, Rating: 5,
		Status: entities.StatusFinished, GenreID: scifi.ID,
	}).Error)
	require.NoError(t, db.Create(&entities.Book{
		Title: "Hyperion", Author: "Dan Simmons", Pages: 200, CurrentPage: 50, Rating: 4,
		Status: entities.StatusReading, GenreID: scifi.ID,
	}).Error)
	require.NoError(t, db.Create(&entities.Book{
		Title: "Emma", Author: "Jane Austen", Pages: 100, Rating: 0,
		Status: entities.StatusWantToRead, GenreID: romance.ID,
	}).Error)

	snap, err := newProvider(db).Collect(context.Background())
	require.NoError(t, err)

	stats := snap.Stats
	assert.Equal(t, TierReal, snap.Tier)
	assert.Equal(t, int64(3), stats.TotalBooks)
	assert.Equal(t, int64(2), stats.TotalGenres)
	assert.Equal(t, int64(1), stats.StatusCounts.Finished)
	assert.Equal(t, int64(1), stats.StatusCounts.Reading)
	assert.Equal(t, int64(1), stats.StatusCounts.WantToRead)

	// Unrated books are excluded from the average: (5+4)/2.
	assert.Equal(t, 4.5, stats.AverageRating)

	assert.Equal(t, int64(600), stats.TotalPages)
	// Finished counts full pages, reading counts its current page.
	assert.Equal(t, int64(350), stats.ReadPages)
	assert.Equal(t, int64(58), stats.ReadingProgress)

	require.Len(t, stats.RecentBooks, 3)
	assert.NotEmpty(t, stats.RecentBooks[0].Genre.Name)

	require.NotEmpty(t, stats.TopGenres)
	assert.Equal(t, "Science Fiction", stats.TopGenres[0].Name)
	assert.Equal(t, int64(2), stats.TopGenres[0].BookCount)

	// Only rated books appear in the top-rated list.
	require.Len(t, stats.TopRated, 2)
	assert.Equal(t, "Dune", stats.TopRated[0].Title)
}

func TestDatabaseProvider_ReadingProgress(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	genre := seedGenre(t, db, "Fiction")
	require.NoError(t, db.Create(&entities.Book{
		Title: "Done", Author: "X", Pages: 300,
		Status: entities.StatusFinished, GenreID: genre.ID,
	}).Error)
	require.NoError(t, db.Create(&entities.Book{
		Title: "Open", Author: "X", Pages: 200, CurrentPage: 50,
		Status: entities.StatusReading, GenreID: genre.ID,
	}).Error)

	snap, err := newProvider(db).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(500), snap.Stats.TotalPages)
	assert.Equal(t, int64(350), snap.Stats.ReadPages)
	assert.Equal(t, int64(70), snap.Stats.ReadingProgress)
}

func TestDatabaseProvider_PausedCountsCurrentPage(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	genre := seedGenre(t, db, "Fiction")
	require.NoError(t, db.Create(&entities.Book{
		Title: "Paused", Author: "X", Pages: 400, CurrentPage: 120,
		Status: entities.StatusPaused, GenreID: genre.ID,
	}).Error)
	require.NoError(t, db.Create(&entities.Book{
		Title: "Abandoned", Author: "X", Pages: 100, CurrentPage: 30,
		Status: entities.StatusAbandoned, GenreID: genre.ID,
	}).Error)

	snap, err := newProvider(db).Collect(context.Background())
	require.NoError(t, err)

	// Abandoned progress never counts as read.
	assert.Equal(t, int64(120), snap.Stats.ReadPages)
	assert.Equal(t, int64(24), snap.Stats.ReadingProgress)
}

func TestDatabaseProvider_ProgressStaysInBounds(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	genre := seedGenre(t, db, "Fiction")
	require.NoError(t, db.Create(&entities.Book{
		Title: "Done", Author: "X", Pages: 100,
		Status: entities.StatusFinished, GenreID: genre.ID,
	}).Error)

	snap, err := newProvider(db).Collect(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, snap.Stats.ReadingProgress, int64(0))
	assert.LessOrEqual(t, snap.Stats.ReadingProgress, int64(100))
	assert.Equal(t, int64(100), snap.Stats.ReadingProgress)
}

type stubProvider struct {
	snap *Snapshot
	err  error
}

func (s stubProvider) Collect(context.Context) (*Snapshot, error) {
	return s.snap, s.err
}

func TestAggregator_FirstProviderWins(t *testing.T) {
	agg := NewAggregator([]Provider{
		stubProvider{snap: &Snapshot{Tier: TierReal}},
		stubProvider{snap: &Snapshot{Tier: TierDemo}},
	})

	snap, err := agg.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, TierReal, snap.Tier)
	assert.False(t, snap.Fallback)
}

func TestAggregator_FallsBackWhenProviderFails(t *testing.T) {
	agg := NewAggregator([]Provider{
		stubProvider{err: errors.New("connection refused")},
		stubProvider{snap: &Snapshot{Tier: TierDemo}},
	})

	snap, err := agg.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, TierDemo, snap.Tier)
	assert.True(t, snap.Fallback)
}

func TestAggregator_AllProvidersFail(t *testing.T) {
	agg := NewAggregator([]Provider{
		stubProvider{err: errors.New("down")},
	})

	_, err := agg.Collect(context.Background())

	assert.ErrorIs(t, err, ErrNoProviders)
}

type countingProvider struct {
	calls int
}

func (c *countingProvider) Collect(context.Context) (*Snapshot, error) {
	c.calls++
	return &Snapshot{Tier: TierReal}, nil
}

func TestAggregator_CacheServesRepeatCalls(t *testing.T) {
	provider := &countingProvider{}
	agg := NewAggregator([]Provider{provider}, WithCacheTTL(time.Minute))
	ctx := context.Background()

	_, err := agg.Collect(ctx)
	require.NoError(t, err)
	_, err = agg.Collect(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)

	// Refresh bypasses the cache.
	_, err = agg.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}
