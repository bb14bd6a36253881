package http

import (
	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/demo"
	"bookshelf/internal/session"
	"bookshelf/internal/stats"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	BookStore  BookStore
	GenreStore GenreStore
	Database   *database.Database
	Aggregator *stats.Aggregator

	// In-progress listing for the daily view
	ProgressStore ProgressStore
	Goals         config.Goals

	// Sessions (saved filters, recent searches)
	SessionManager *session.Manager
	CSRFSecret     []byte
	SecureCookies  bool

	// Demo mode
	DemoMiddleware *demo.Middleware

	// Application info
	Version string
}
