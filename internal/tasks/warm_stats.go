package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"bookshelf/internal/stats"
)

// WarmStatsTask recomputes the dashboard snapshot so the next request is
// served from cache.
type WarmStatsTask struct{}

// Config returns the queue configuration for stats warming.
func (t WarmStatsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_stats",
		MaxAttempts: 2,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmStatsProcessor creates a processor function for WarmStatsTask.
func WarmStatsProcessor(aggregator *stats.Aggregator) backlite.QueueProcessor[WarmStatsTask] {
	return func(ctx context.Context, task WarmStatsTask) error {
		if aggregator == nil {
			return fmt.Errorf("stats aggregator not configured")
		}

		snap, err := aggregator.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("warm stats: %w", err)
		}

		log.Printf("[TASK] Warmed stats cache (tier=%s, books=%d)", snap.Tier, snap.Stats.TotalBooks)
		return nil
	}
}

// NewWarmStatsQueue creates a backlite queue for stats warming tasks.
func NewWarmStatsQueue(aggregator *stats.Aggregator) backlite.Queue {
	return backlite.NewQueue(WarmStatsProcessor(aggregator))
}
