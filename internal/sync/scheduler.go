package sync

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

// TaskName identifies the periodic background sync task in logs
const TaskName = "sync_reports_work"

// Scheduler runs SyncPending on a fixed interval in the background.
//
// Engine-level failures (the pending snapshot could not be read) shrink the
// next wait with exponential backoff, up to a bounded number of retries
// before falling back to the regular interval. Per-report failures are
// normal outcomes of a run and never trigger backoff.
type Scheduler struct {
	service     *Service
	interval    time.Duration
	maxBackoffs uint64
	logger      *loggy.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler for the given sync service
func NewScheduler(service *Service, interval time.Duration, maxBackoffs uint64, logger *loggy.Logger) *Scheduler {
	return &Scheduler{
		service:     service,
		interval:    interval,
		maxBackoffs: maxBackoffs,
		logger:      logger,
	}
}

// Start launches the background loop. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Info("Background sync started", "task", TaskName, "interval", s.interval)

	go s.run(runCtx)
}

// Stop halts the background loop and waits for the current run to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	s.logger.Info("Background sync stopped", "task", TaskName)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = s.interval
	policy.MaxElapsedTime = 0
	failures := uint64(0)

	wait := s.interval
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !s.service.IsConfigured() {
			s.logger.Debug("Remote not configured, skipping scheduled sync", "task", TaskName)
			timer.Reset(s.interval)
			continue
		}

		result, err := s.service.SyncPending(ctx, TriggerScheduled)
		switch {
		case err != nil && ctx.Err() != nil:
			return
		case err != nil && failures < s.maxBackoffs:
			failures++
			wait = policy.NextBackOff()
			s.logger.Warn("Scheduled sync failed, backing off",
				"task", TaskName,
				"attempt", failures,
				"next_in", wait,
				"error", err,
			)
		case err != nil:
			failures = 0
			policy.Reset()
			wait = s.interval
			s.logger.Error("Scheduled sync failed, resuming normal interval",
				"task", TaskName,
				"error", err,
			)
		default:
			failures = 0
			policy.Reset()
			wait = s.interval
			if result.TotalItems > 0 {
				s.logger.Info("Scheduled sync completed",
					"task", TaskName,
					"synced", result.SuccessItems,
					"failed", result.FailedItems,
				)
			}
		}

		timer.Reset(wait)
	}
}
