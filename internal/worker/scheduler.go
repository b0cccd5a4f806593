package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the pending-expense sweep on a cron schedule. Overlapping
// runs are skipped.
type Scheduler struct {
	worker *SyncWorker
	spec   string

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
}

func NewScheduler(worker *SyncWorker, spec string) *Scheduler {
	return &Scheduler{worker: worker, spec: spec}
}

// Start registers the sweep and starts the cron runner. Returns an error if
// already running or if the schedule does not parse.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("sync scheduler is already running")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(s.spec, func() {
		n, err := s.worker.ProcessPending(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Scheduled sync sweep failed", "error", err)
			return
		}
		if n > 0 {
			slog.InfoContext(ctx, "Scheduled sync sweep completed", "synced", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sync sweep %q: %w", s.spec, err)
	}
	c.Start()

	s.cron = c
	s.running = true
	slog.InfoContext(ctx, "Sync scheduler started", "schedule", s.spec)
	return nil
}

// Stop halts the runner and waits for an in-flight sweep, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	c := s.cron
	s.running = false
	s.cron = nil
	s.mu.Unlock()

	select {
	case <-c.Stop().Done():
		slog.InfoContext(ctx, "Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
