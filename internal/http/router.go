package http

import (
	"github.com/gin-gonic/gin"

	"bookshelf/internal/session"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	// Apply CSRF protection if configured
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
	}

	// Apply demo mode middleware if enabled
	if cfg.DemoMiddleware != nil && cfg.DemoMiddleware.IsEnabled() {
		router.Use(cfg.DemoMiddleware.InjectContext())
		router.Use(cfg.DemoMiddleware.Handler())
	}

	// Health endpoints
	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", healthController.Ping)

	api := router.Group("/api")

	// Books
	if cfg.BookStore != nil {
		booksController := NewBooksController(cfg.BookStore)
		api.GET("/books", booksController.List)
		api.POST("/books", booksController.Create)
		api.GET("/books/:id", booksController.Get)
		api.PUT("/books/:id", booksController.Update)
		api.DELETE("/books/:id", booksController.Delete)
		api.PATCH("/books/:id/progress", booksController.UpdateProgress)
		api.PATCH("/books/:id/status", booksController.UpdateStatus)
	}

	// Genres / categories
	if cfg.GenreStore != nil {
		genresController := NewGenresController(cfg.GenreStore)
		api.GET("/categories", genresController.ListCategories)
		api.POST("/categories", genresController.CreateCategory)
		api.DELETE("/categories", genresController.DeleteCategory)
		api.GET("/categories/genres", genresController.ListGenres)
		api.GET("/categories/genres/:genre", genresController.GetGenre)
		api.PUT("/categories/genres/:genre", genresController.RenameGenre)
		api.DELETE("/categories/genres/:genre", genresController.DeleteGenre)
	}

	// Dashboard statistics
	if cfg.Aggregator != nil {
		statsController := NewStatsController(cfg.Aggregator)
		api.GET("/stats", statsController.Get)
	}

	// Daily reading progress
	if cfg.ProgressStore != nil {
		progressController := NewProgressController(cfg.ProgressStore, cfg.Goals)
		api.GET("/daily-progress", progressController.Get)
	}

	// Saved filters and recent searches live in the session
	if cfg.SessionManager != nil {
		filtersController := NewFiltersController(cfg.SessionManager)
		api.GET("/filters", filtersController.ListSaved)
		api.POST("/filters", filtersController.SaveFilter)
		api.DELETE("/filters/:id", filtersController.DeleteFilter)
		api.GET("/searches/recent", filtersController.ListRecent)
		api.POST("/searches/recent", filtersController.PushRecent)
		api.DELETE("/searches/recent", filtersController.ClearRecent)
	}

	return router
}
