package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxSavedFilters caps how many presets a store keeps.
	MaxSavedFilters = 20
	// MaxRecentSearches caps the recent free-text search history.
	MaxRecentSearches = 10
)

var (
	ErrPresetNameRequired = errors.New("preset name is required")
	ErrPresetNotFound     = errors.New("saved filter not found")
	ErrNoPresetStore      = errors.New("no preset store configured")
)

// SavedFilter is a named snapshot of filters and sort order. Pagination
// is deliberately not part of a preset.
type SavedFilter struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Filters   SearchFilters `json:"filters"`
	Sort      SortOption    `json:"sort"`
	CreatedAt time.Time     `json:"createdAt"`
}

// PresetStore persists saved filter presets.
type PresetStore interface {
	List(ctx context.Context) ([]SavedFilter, error)
	Save(ctx context.Context, preset SavedFilter) error
	Remove(ctx context.Context, id string) error
}

// MemoryPresetStore is an in-process PresetStore. It is the default for
// library use and tests; web handlers plug in a session-backed store.
type MemoryPresetStore struct {
	mu      sync.Mutex
	presets []SavedFilter
}

func NewMemoryPresetStore() *MemoryPresetStore {
	return &MemoryPresetStore{}
}

func (s *MemoryPresetStore) List(_ context.Context) ([]SavedFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]SavedFilter(nil), s.presets...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryPresetStore) Save(_ context.Context, preset SavedFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Saving under an existing name replaces that preset.
	for i, p := range s.presets {
		if strings.EqualFold(p.Name, preset.Name) {
			s.presets[i] = preset
			return nil
		}
	}
	s.presets = append(s.presets, preset)
	if len(s.presets) > MaxSavedFilters {
		s.presets = s.presets[len(s.presets)-MaxSavedFilters:]
	}
	return nil
}

func (s *MemoryPresetStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.presets {
		if p.ID == id {
			s.presets = append(s.presets[:i], s.presets[i+1:]...)
			return nil
		}
	}
	return ErrPresetNotFound
}

// SaveCurrentFilter snapshots the current filters and sort under the
// given name. The current page and limit are not captured.
func (m *Manager) SaveCurrentFilter(ctx context.Context, name string) (SavedFilter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedFilter{}, ErrPresetNameRequired
	}
	if m.presets == nil {
		return SavedFilter{}, ErrNoPresetStore
	}

	m.mu.Lock()
	preset := SavedFilter{
		ID:        uuid.NewString(),
		Name:      name,
		Filters:   m.state.Filters,
		Sort:      m.state.Sort,
		CreatedAt: time.Now(),
	}
	m.mu.Unlock()

	if err := m.presets.Save(ctx, preset); err != nil {
		return SavedFilter{}, err
	}
	return preset, nil
}

// ApplySavedFilter replaces the current filters and sort with the
// preset's, resets to the first page and fetches immediately.
func (m *Manager) ApplySavedFilter(preset SavedFilter) {
	m.mu.Lock()
	m.debounce.Cancel()
	m.state.Filters = preset.Filters
	m.state.Sort = preset.Sort.Normalize()
	m.state.Page = DefaultPage
	m.mu.Unlock()
	m.fetchNow()
}

// RemoveSavedFilter deletes a preset by id.
func (m *Manager) RemoveSavedFilter(ctx context.Context, id string) error {
	if m.presets == nil {
		return ErrNoPresetStore
	}
	return m.presets.Remove(ctx, id)
}

// SavedFilters lists the stored presets, most recent first.
func (m *Manager) SavedFilters(ctx context.Context) ([]SavedFilter, error) {
	if m.presets == nil {
		return nil, ErrNoPresetStore
	}
	return m.presets.List(ctx)
}

// PushRecent prepends a search term to a recent-searches list, deduping
// case-insensitively and trimming to max entries. Blank terms are ignored.
func PushRecent(recent []string, term string, max int) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return recent
	}
	out := make([]string, 0, len(recent)+1)
	out = append(out, term)
	for _, r := range recent {
		if strings.EqualFold(r, term) {
			continue
		}
		out = append(out, r)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
