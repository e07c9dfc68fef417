// Package scheduler runs periodic background batch syncs against the
// warehouse.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appfulfillment "github.com/erp/wms-connect/internal/application/fulfillment"
)

// SyncRunner is the batch operation the scheduler drives.
type SyncRunner interface {
	RunBatch(ctx context.Context) (*appfulfillment.SyncResult, error)
}

// Config holds scheduler configuration
type Config struct {
	Enabled  bool
	Interval time.Duration
}

// SyncScheduler triggers a batch sync on a fixed interval. Runs never
// overlap: a slow batch simply delays the next tick.
type SyncScheduler struct {
	config Config
	runner SyncRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncScheduler creates a new sync scheduler.
func NewSyncScheduler(config Config, runner SyncRunner, logger *zap.Logger) *SyncScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the scheduler loop.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Duration("interval", s.config.Interval),
	)

	return nil
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop fires a batch run on every tick until the context is cancelled.
func (s *SyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single batch run. Failures are logged and the loop
// keeps ticking.
func (s *SyncScheduler) runOnce(ctx context.Context) {
	start := time.Now()
	result, err := s.runner.RunBatch(ctx)
	if err != nil {
		s.logger.Error("Scheduled sync run failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled sync run finished",
		zap.Int("processed", result.ProcessedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("updated", len(result.UpdatedOrderIDs)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("duration", time.Since(start)),
	)
}
