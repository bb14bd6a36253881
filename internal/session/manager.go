// Package session keeps per-visitor state without accounts: saved filter
// presets and recent search terms live in a cookie-backed session stored
// in SQLite.
package session

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"bookshelf/internal/config"
	"bookshelf/internal/search"
)

// Session data keys
const (
	SessionKeySavedFilters   = "saved_filters"
	SessionKeyRecentSearches = "recent_searches"
)

func init() {
	// Register types that will be stored in sessions
	gob.Register([]search.SavedFilter{})
	gob.Register([]string{})
	gob.Register(time.Time{})
}

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Sessions) (*Manager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// SavedFilters returns the visitor's saved filter presets.
func (m *Manager) SavedFilters(r *http.Request) []search.SavedFilter {
	presets, ok := m.Get(r.Context(), SessionKeySavedFilters).([]search.SavedFilter)
	if !ok {
		return nil
	}
	return presets
}

// PutSavedFilters replaces the visitor's saved filter presets.
func (m *Manager) PutSavedFilters(r *http.Request, presets []search.SavedFilter) {
	m.Put(r.Context(), SessionKeySavedFilters, presets)
}

// RecentSearches returns the visitor's recent search terms, newest first.
func (m *Manager) RecentSearches(r *http.Request) []string {
	recent, ok := m.Get(r.Context(), SessionKeyRecentSearches).([]string)
	if !ok {
		return nil
	}
	return recent
}

// PutRecentSearches replaces the visitor's recent search terms.
func (m *Manager) PutRecentSearches(r *http.Request, recent []string) {
	m.Put(r.Context(), SessionKeyRecentSearches, recent)
}

// ClearRecentSearches drops the visitor's search history.
func (m *Manager) ClearRecentSearches(r *http.Request) {
	m.Remove(r.Context(), SessionKeyRecentSearches)
}
