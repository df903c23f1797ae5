// Package scheduler triggers scrape runs on a daily cron schedule.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps a cron runner with a daily-at-HH:MM entry point.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger
}

// New creates a stopped scheduler.
func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.Sugar(),
	}
}

// ScheduleDaily registers job to run every day at the given local time.
func (s *Scheduler) ScheduleDaily(hour, minute int, job func()) error {
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}
	s.log.Infow("scheduled daily scrape", "at", fmt.Sprintf("%02d:%02d", hour, minute))
	return nil
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
