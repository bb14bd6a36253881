package stats

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Provider computes a stats snapshot from one source.
type Provider interface {
	Collect(ctx context.Context) (*Snapshot, error)
}

// ErrNoProviders is returned when every provider in the chain failed.
var ErrNoProviders = errors.New("no stats provider produced a snapshot")

// Aggregator walks a ranked provider chain and returns the first snapshot
// it gets. When a higher-ranked provider errors, the answering snapshot
// is marked as a fallback. Snapshots can be cached with a TTL so the
// dashboard endpoint does not recompute on every request.
type Aggregator struct {
	providers []Provider

	mu       sync.Mutex
	cached   *Snapshot
	cachedAt time.Time
	ttl      time.Duration
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithCacheTTL enables snapshot caching for the given duration.
func WithCacheTTL(ttl time.Duration) AggregatorOption {
	return func(a *Aggregator) { a.ttl = ttl }
}

// NewAggregator builds an aggregator over providers in rank order, most
// trusted first.
func NewAggregator(providers []Provider, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{providers: providers}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect returns the current snapshot, from cache when fresh.
func (a *Aggregator) Collect(ctx context.Context) (*Snapshot, error) {
	if snap := a.fromCache(); snap != nil {
		return snap, nil
	}
	return a.Refresh(ctx)
}

// Refresh recomputes the snapshot, bypassing and repopulating the cache.
func (a *Aggregator) Refresh(ctx context.Context) (*Snapshot, error) {
	degraded := false
	for _, p := range a.providers {
		snap, err := p.Collect(ctx)
		if err != nil {
			log.Printf("stats provider failed, trying next: %v", err)
			degraded = true
			continue
		}
		snap.Fallback = degraded
		a.store(snap)
		return snap, nil
	}
	return nil, ErrNoProviders
}

func (a *Aggregator) fromCache() *Snapshot {
	if a.ttl <= 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cached == nil || time.Since(a.cachedAt) > a.ttl {
		return nil
	}
	snap := *a.cached
	return &snap
}

func (a *Aggregator) store(snap *Snapshot) {
	if a.ttl <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	copied := *snap
	a.cached = &copied
	a.cachedAt = time.Now()
}
