package tasks

import (
	"time"

	"bookshelf/internal/config"
)

// Config tunes the task queue: worker concurrency, retry policy, and how
// long completed tasks are retained before cleanup.
type Config struct {
	Workers           int
	MaxRetries        int
	RetryDelay        time.Duration
	TaskTimeout       time.Duration
	ReleaseAfter      time.Duration
	CleanupInterval   time.Duration
	RetentionDuration time.Duration
}

// DefaultConfig returns the defaults used when no app config is available
// (mainly in tests).
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// FromApp maps the viper-backed task settings onto a queue Config.
func FromApp(t config.Tasks) Config {
	return Config{
		Workers:           t.Workers,
		MaxRetries:        t.MaxRetries,
		RetryDelay:        t.RetryDelay,
		TaskTimeout:       t.TaskTimeout,
		ReleaseAfter:      t.ReleaseAfter,
		CleanupInterval:   t.CleanupInterval,
		RetentionDuration: t.RetentionDuration,
	}
}
