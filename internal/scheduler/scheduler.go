// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the studio's background maintenance jobs on cron
// schedules and lets the admin trigger them by name.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrJobNotFound is returned by Trigger for unknown job names.
var ErrJobNotFound = errors.New("scheduler: job not found")

// JobTimeout bounds a single run.
const JobTimeout = 5 * time.Minute

// JobFunc is one run of a job.
type JobFunc func(ctx context.Context) error

type job struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	fn          JobFunc

	mu      sync.Mutex
	lastErr error
	lastRun time.Time
	running bool
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	LastRun     time.Time `json:"last_run"`
	NextRun     time.Time `json:"next_run"`
	LastError   string    `json:"last_error,omitempty"`
	Running     bool      `json:"running"`
}

// Scheduler owns a cron instance and the jobs added to it.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*job
}

// New creates a scheduler. Jobs are added with Add before Start.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Add registers fn under name on a standard cron spec or descriptor such
// as "@every 15m". Names must be unique.
func (s *Scheduler) Add(name, description, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	j := &job{name: name, description: description, schedule: schedule, fn: fn}
	id, err := s.cron.AddFunc(schedule, func() { s.run(context.Background(), j) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %q: %w", schedule, name, err)
	}
	j.entryID = id
	s.jobs[name] = j

	s.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// run executes a job unless a previous run is still going. Panics are
// recovered and reported as the job error.
func (s *Scheduler) run(ctx context.Context, j *job) (err error) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		s.logger.Debug("skipping job, previous run still active", "name", j.name)
		return nil
	}
	j.running = true
	j.mu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		j.mu.Lock()
		j.running = false
		j.lastRun = start
		j.lastErr = err
		j.mu.Unlock()

		if err != nil {
			s.logger.Error("scheduled job failed", "category", "system", "name", j.name, "error", err)
		} else {
			s.logger.Debug("scheduled job finished", "name", j.name, "duration", time.Since(start))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, JobTimeout)
	defer cancel()
	return j.fn(ctx)
}

// Trigger runs the named job now on the caller's goroutine.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return ErrJobNotFound
	}

	s.logger.Info("manually triggering job", "name", name)
	return s.run(context.WithoutCancel(ctx), j)
}

// List returns all jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		j.mu.Lock()
		info := JobInfo{
			Name:        j.name,
			Description: j.description,
			Schedule:    j.schedule,
			LastRun:     j.lastRun,
			NextRun:     s.cron.Entry(j.entryID).Next,
			Running:     j.running,
		}
		if j.lastErr != nil {
			info.LastError = j.lastErr.Error()
		}
		j.mu.Unlock()
		out = append(out, info)
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
