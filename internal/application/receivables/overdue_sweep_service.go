package receivables

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/bizops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultSweepBatchSize bounds how many receivables one sweep run locks
const DefaultSweepBatchSize = 500

// OverdueSweepService transitions past-due receivables to overdue. The sweep
// is idempotent: the state machine only moves open/partial rows, so a crash
// mid-run or an overlapping run re-evaluates the remainder without touching
// rows that already transitioned.
type OverdueSweepService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	batchSize      int
}

// NewOverdueSweepService creates a new OverdueSweepService
func NewOverdueSweepService(scope TransactionScope, logger *zap.Logger) *OverdueSweepService {
	return &OverdueSweepService{
		scope:     scope,
		logger:    logger,
		batchSize: DefaultSweepBatchSize,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OverdueSweepService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBatchSize bounds the number of rows locked per sweep run
func (s *OverdueSweepService) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// SweepStats contains statistics about one sweep run
type SweepStats struct {
	Candidates  int       `json:"candidates"`
	Transitions int       `json:"transitions"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// SweepOverdue locks the current batch of past-due open/partial receivables
// and transitions each one that still qualifies under the lock. The re-check
// under the lock is what makes concurrent payment application safe: a row
// paid off between the scan and the lock simply no longer qualifies.
func (s *OverdueSweepService) SweepOverdue(ctx context.Context, asOf time.Time) (*SweepStats, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	stats := &SweepStats{ProcessedAt: time.Now().UTC()}

	var touched []*receivables.Receivable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		candidates, err := repos.ReceivableRepo().FindOverdueCandidatesForUpdate(ctx, asOf, s.batchSize)
		if err != nil {
			return err
		}
		stats.Candidates = len(candidates)

		for i := range candidates {
			r := &candidates[i]
			if !r.MarkOverdue(asOf) {
				continue
			}
			if err := repos.ReceivableRepo().Save(ctx, r); err != nil {
				s.logger.Error("Failed to save overdue transition",
					zap.String("receivable_id", r.ID.String()),
					zap.Error(err),
				)
				stats.Failed++
				continue
			}
			touched = append(touched, r)
			stats.Transitions++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Overdue sweep failed", zap.Error(err))
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, r := range touched {
			events := r.GetDomainEvents()
			if len(events) == 0 {
				continue
			}
			_ = s.eventPublisher.Publish(ctx, events...)
			r.ClearDomainEvents()
		}
	}

	if stats.Transitions > 0 {
		s.logger.Info("Completed overdue sweep",
			zap.Int("candidates", stats.Candidates),
			zap.Int("transitions", stats.Transitions),
			zap.Int("failed", stats.Failed),
			zap.Time("as_of", asOf),
		)
	} else {
		s.logger.Debug("Overdue sweep found nothing to transition",
			zap.Int("candidates", stats.Candidates),
		)
	}

	return stats, nil
}
