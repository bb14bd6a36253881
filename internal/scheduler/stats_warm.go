// Package scheduler triggers periodic background work on cron schedules.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"bookshelf/internal/tasks"
)

// StatsWarmScheduler periodically enqueues a stats warming task so the
// dashboard snapshot stays fresh in the cache.
type StatsWarmScheduler struct {
	client   *tasks.Client
	schedule string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewStatsWarmScheduler(client *tasks.Client, schedule string) *StatsWarmScheduler {
	return &StatsWarmScheduler{
		client:   client,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule. Safe to call once; subsequent calls are
// no-ops.
func (s *StatsWarmScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.client.Add(tasks.WarmStatsTask{}).Save(); err != nil {
			log.Printf("Stats warm scheduler: failed to enqueue task: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid warm schedule '%s': %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Stats warm scheduler: started with schedule '%s'", s.schedule)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *StatsWarmScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Stats warm scheduler: stopped")
}
