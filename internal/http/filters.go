package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookshelf/internal/search"
	"bookshelf/internal/session"
)

// FiltersController manages a visitor's saved filter presets and recent
// search history, both held in the cookie-backed session.
type FiltersController struct {
	sessions *session.Manager
}

func NewFiltersController(sessions *session.Manager) *FiltersController {
	return &FiltersController{sessions: sessions}
}

// ListSaved handles GET /api/filters.
func (controller *FiltersController) ListSaved(c *gin.Context) {
	presets := controller.sessions.SavedFilters(c.Request)
	if presets == nil {
		presets = []search.SavedFilter{}
	}
	respondOK(c, presets)
}

type saveFilterRequest struct {
	Name    string               `json:"name"`
	Filters search.SearchFilters `json:"filters"`
	Sort    search.SortOption    `json:"sort"`
}

// SaveFilter handles POST /api/filters. Saving under an existing name
// replaces that preset; the list is capped at the oldest end.
func (controller *FiltersController) SaveFilter(c *gin.Context) {
	var req saveFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	preset := search.SavedFilter{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Filters:   req.Filters,
		Sort:      req.Sort.Normalize(),
		CreatedAt: time.Now(),
	}

	presets := controller.sessions.SavedFilters(c.Request)
	replaced := false
	for i, p := range presets {
		if p.Name == preset.Name {
			presets[i] = preset
			replaced = true
			break
		}
	}
	if !replaced {
		presets = append(presets, preset)
	}
	if len(presets) > search.MaxSavedFilters {
		presets = presets[len(presets)-search.MaxSavedFilters:]
	}

	controller.sessions.PutSavedFilters(c.Request, presets)
	respondCreated(c, preset)
}

// DeleteFilter handles DELETE /api/filters/:id.
func (controller *FiltersController) DeleteFilter(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	presets := controller.sessions.SavedFilters(c.Request)
	for i, p := range presets {
		if p.ID == id {
			presets = append(presets[:i], presets[i+1:]...)
			controller.sessions.PutSavedFilters(c.Request, presets)
			respondMessage(c, "filter deleted")
			return
		}
	}
	respondNotFound(c, "saved filter")
}

// ListRecent handles GET /api/searches/recent.
func (controller *FiltersController) ListRecent(c *gin.Context) {
	recent := controller.sessions.RecentSearches(c.Request)
	if recent == nil {
		recent = []string{}
	}
	respondOK(c, recent)
}

type recentSearchRequest struct {
	Term string `json:"term"`
}

// PushRecent handles POST /api/searches/recent: records a search term,
// most recent first, deduplicated and capped.
func (controller *FiltersController) PushRecent(c *gin.Context) {
	var req recentSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Term == "" {
		respondBadRequest(c, "term is required")
		return
	}

	recent := controller.sessions.RecentSearches(c.Request)
	recent = search.PushRecent(recent, req.Term, search.MaxRecentSearches)
	controller.sessions.PutRecentSearches(c.Request, recent)

	respondOK(c, recent)
}

// ClearRecent handles DELETE /api/searches/recent.
func (controller *FiltersController) ClearRecent(c *gin.Context) {
	controller.sessions.ClearRecentSearches(c.Request)
	respondMessage(c, "search history cleared")
}
