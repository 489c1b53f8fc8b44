package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs until its context is cancelled.
type Scheduler struct {
	jobs []Job
	mu   sync.Mutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Run starts every job and blocks until ctx is done and all jobs returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.runJob(ctx, job)
		}(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(jobs))
	wg.Wait()
	slog.Info("Cron scheduler stopped")
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(ctx, job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.executeJob(ctx, job)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	start := time.Now()

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.executeJob(ctx, job)
	}
}
