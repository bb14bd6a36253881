package search

import (
	"net/url"
	"sync"
	"time"

	"bookshelf/internal/entities"
)

// DefaultDebounce is the quiet period applied to free-text query changes
// before a request is issued.
const DefaultDebounce = 300 * time.Millisecond

// Searcher executes a composed query against the book listing backend.
type Searcher interface {
	Search(filters SearchFilters, sort SortOption, page, limit int) ([]entities.Book, int64, error)
}

// State is the current query a user is composing, together with the last
// fetched page of results.
type State struct {
	Filters    SearchFilters
	Sort       SortOption
	Page       int
	Limit      int
	Results    []entities.Book
	TotalCount int64
	IsLoading  bool
	Err        string
}

// TotalPages derives the page count from the total and the page size.
func (s State) TotalPages() int {
	if s.Limit <= 0 || s.TotalCount <= 0 {
		return 0
	}
	return int((s.TotalCount + int64(s.Limit) - 1) / int64(s.Limit))
}

// Manager maintains the current search state, keeps it addressable as URL
// query parameters, and executes it through a Searcher. Free-text changes
// are debounced; every other state change fetches immediately. A state
// change made while a fetch is in flight supersedes it: the stale result
// is dropped when it lands.
type Manager struct {
	mu       sync.Mutex
	searcher Searcher
	debounce *Debouncer
	presets  PresetStore
	onChange func(State)

	state State
	seq   uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithDebounce overrides the free-text quiet period.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = NewDebouncer(d) }
}

// WithPresetStore attaches a store for saved filter presets.
func WithPresetStore(store PresetStore) Option {
	return func(m *Manager) { m.presets = store }
}

// WithOnChange registers a callback invoked with a state snapshot after
// every state transition. The callback runs outside the manager lock.
func WithOnChange(fn func(State)) Option {
	return func(m *Manager) { m.onChange = fn }
}

// NewManager creates a manager in the default (unfiltered) state. No
// fetch is issued until the first state change or an explicit Refresh.
func NewManager(searcher Searcher, opts ...Option) *Manager {
	m := &Manager{
		searcher: searcher,
		debounce: NewDebouncer(DefaultDebounce),
		state: State{
			Filters: DefaultFilters(),
			Sort:    DefaultSort(),
			Page:    DefaultPage,
			Limit:   DefaultLimit,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// snapshot copies the state; callers must hold the lock.
func (m *Manager) snapshot() State {
	s := m.state
	s.Results = append([]entities.Book(nil), m.state.Results...)
	return s
}

// UpdateFilters merges partial filter changes, resets to the first page
// and triggers a fetch. A change that touches only the free-text query is
// debounced; anything else fetches immediately.
func (m *Manager) UpdateFilters(p FilterPatch) {
	m.mu.Lock()
	m.state.Filters = m.state.Filters.Merge(p)
	m.state.Page = DefaultPage
	m.mu.Unlock()

	if p.searchOnly() {
		m.debounce.Trigger(m.fetchNow)
		return
	}
	m.debounce.Cancel()
	m.fetchNow()
}

// UpdateSort merges partial sort changes, resets to the first page and
// fetches immediately.
func (m *Manager) UpdateSort(p SortPatch) {
	m.mu.Lock()
	m.state.Sort = m.state.Sort.Merge(p).Normalize()
	m.state.Page = DefaultPage
	m.mu.Unlock()

	m.debounce.Cancel()
	m.fetchNow()
}

// UpdatePage moves to another page without touching filters.
func (m *Manager) UpdatePage(page int) {
	if page < 1 {
		page = DefaultPage
	}
	m.mu.Lock()
	m.state.Page = page
	m.mu.Unlock()

	m.debounce.Cancel()
	m.fetchNow()
}

// UpdateLimit changes the page size and resets to the first page.
func (m *Manager) UpdateLimit(limit int) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	m.mu.Lock()
	m.state.Limit = limit
	m.state.Page = DefaultPage
	m.mu.Unlock()

	m.debounce.Cancel()
	m.fetchNow()
}

// ClearFilters resets filters and sort to their defaults and fetches the
// unfiltered listing.
func (m *Manager) ClearFilters() {
	m.mu.Lock()
	m.state.Filters = DefaultFilters()
	m.state.Sort = DefaultSort()
	m.state.Page = DefaultPage
	m.mu.Unlock()

	m.debounce.Cancel()
	m.fetchNow()
}

// Refresh re-executes the current query immediately.
func (m *Manager) Refresh() {
	m.debounce.Cancel()
	m.fetchNow()
}

// QueryString returns the current state serialized as URL query
// parameters under the default-omission rule.
func (m *Manager) QueryString() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EncodeQuery(m.state.Filters, m.state.Sort, m.state.Page, m.state.Limit).Encode()
}

// SetFromQuery replaces filters, sort and pagination from URL query
// parameters and fetches immediately.
func (m *Manager) SetFromQuery(params url.Values) {
	f, sort, page, limit := DecodeQuery(params)
	m.mu.Lock()
	m.state.Filters = f
	m.state.Sort = sort
	m.state.Page = page
	m.state.Limit = limit
	m.mu.Unlock()

	m.debounce.Cancel()
	m.fetchNow()
}

// fetchNow executes the current query. If the state changed again while
// the request was in flight, the stale result is discarded.
func (m *Manager) fetchNow() {
	m.mu.Lock()
	m.seq++
	gen := m.seq
	m.state.IsLoading = true
	m.state.Err = ""
	filters := m.state.Filters
	sort := m.state.Sort
	page := m.state.Page
	limit := m.state.Limit
	m.mu.Unlock()
	m.notify()

	results, total, err := m.searcher.Search(filters, sort, page, limit)

	m.mu.Lock()
	if gen != m.seq {
		m.mu.Unlock()
		return
	}
	m.state.IsLoading = false
	if err != nil {
		m.state.Err = err.Error()
		m.state.Results = nil
		m.state.TotalCount = 0
	} else {
		m.state.Results = results
		m.state.TotalCount = total
	}
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) notify() {
	if m.onChange == nil {
		return
	}
	m.onChange(m.State())
}
