package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type JobFunc func(ctx context.Context) error

// Job represents a scheduled job. Interval jobs run immediately on start
// and then on every tick; daily jobs run at the next local occurrence of
// Hour and then every 24 hours.
type Job struct {
	Name     string
	Interval time.Duration
	Hour     int
	Location *time.Location
	Daily    bool
	Fn       JobFunc
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds an interval job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// AddDailyJob adds a job that runs once per day at the given local hour
func (s *Scheduler) AddDailyJob(name string, hour int, loc *time.Location, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Hour:     hour,
		Location: loc,
		Daily:    true,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "daily_at_hour", hour)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		if job.Daily {
			go s.runDailyJob(job)
		} else {
			go s.runIntervalJob(job)
		}
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// runIntervalJob runs a single interval job on its ticker
func (s *Scheduler) runIntervalJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(job)
		}
	}
}

// runDailyJob waits for the job's local hour and runs it once per day
func (s *Scheduler) runDailyJob(job Job) {
	defer s.wg.Done()

	for {
		next := nextDailyRun(time.Now().In(job.Location), job.Hour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-s.ctx.Done():
			timer.Stop()
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-timer.C:
			s.executeJob(job)
		}
	}
}

// nextDailyRun returns the next occurrence of the hour strictly after now,
// in now's location.
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
