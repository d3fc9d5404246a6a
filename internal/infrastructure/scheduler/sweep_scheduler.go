package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	appreceivables "github.com/bizops/backend/internal/application/receivables"
	"github.com/bizops/backend/internal/infrastructure/config"
)

// ErrSchedulerNotRunning is returned when a trigger is requested while stopped
var ErrSchedulerNotRunning = errors.New("sweep scheduler is not running")

// Sweeper is the unit of work the scheduler drives on each tick
type Sweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) (*appreceivables.SweepStats, error)
}

// SweepScheduler periodically runs the overdue sweep. Each run is idempotent,
// so an extra tick after a missed one is harmless.
type SweepScheduler struct {
	cfg     config.SweepConfig
	sweeper Sweeper
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepScheduler creates a new SweepScheduler
func NewSweepScheduler(cfg config.SweepConfig, sweeper Sweeper, logger *zap.Logger) *SweepScheduler {
	return &SweepScheduler{
		cfg:     cfg,
		sweeper: sweeper,
		logger:  logger.Named("sweep"),
	}
}

// Start begins the periodic sweep loop. A disabled config makes Start a no-op.
func (s *SweepScheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("Overdue sweep disabled by configuration")
		return nil
	}

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
	go s.loop(ctx)

	s.logger.Info("Overdue sweep scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("batch_size", s.cfg.BatchSize),
	)
	return nil
}

// Stop stops the loop and waits for an in-flight run to finish
func (s *SweepScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Overdue sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue sweep scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerNow runs one sweep outside the schedule
func (s *SweepScheduler) TriggerNow(ctx context.Context) (*appreceivables.SweepStats, error) {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return nil, ErrSchedulerNotRunning
	}
	return s.runOnce(ctx)
}

func (s *SweepScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	// First run on startup covers anything that came due while down
	if _, err := s.runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Initial overdue sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("Scheduled overdue sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *SweepScheduler) runOnce(ctx context.Context) (*appreceivables.SweepStats, error) {
	started := time.Now()
	stats, err := s.sweeper.SweepOverdue(ctx, started.UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Sweep run finished",
		zap.Int("candidates", stats.Candidates),
		zap.Int("transitions", stats.Transitions),
		zap.Duration("took", time.Since(started)),
	)
	return stats, nil
}
