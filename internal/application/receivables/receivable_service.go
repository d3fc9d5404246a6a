package receivables

import (
	"context"
	"errors"
	"time"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// agingScanPageSize bounds one repository round trip of the aging scan
const agingScanPageSize = 1000

// ReceivableService handles receivable lifecycle operations: creation,
// write-off, and derived reporting. Payment allocation lives in
// PaymentService.
type ReceivableService struct {
	scope          TransactionScope
	guard          *authz.Guard
	eventPublisher shared.EventPublisher
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(scope TransactionScope) *ReceivableService {
	return &ReceivableService{
		scope: scope,
		guard: authz.NewGuard(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReceivableService) publishDomainEvents(ctx context.Context, r *receivables.Receivable) {
	if s.eventPublisher == nil || r == nil {
		return
	}
	events := r.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	r.ClearDomainEvents()
}

func (s *ReceivableService) targetTenant(actor authz.Actor, requested uuid.UUID) uuid.UUID {
	if requested != uuid.Nil {
		return requested
	}
	return actor.TenantID
}

// CreateReceivable creates the receivable for a fulfilled order. The
// operation is idempotent per order: a retry for an order that already has a
// receivable returns the existing one unchanged.
func (s *ReceivableService) CreateReceivable(ctx context.Context, actor authz.Actor, req CreateReceivableRequest) (*ReceivableResponse, error) {
	tenantID := s.targetTenant(actor, req.TenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionCreate); err != nil {
		return nil, err
	}

	var result *receivables.Receivable
	created := false
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.ReceivableRepo().FindByOrderID(ctx, tenantID, req.OrderID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		r, err := receivables.NewReceivable(tenantID, req.OrderID, req.CustomerID, req.Amount, req.DueDate)
		if err != nil {
			return err
		}
		r.CreatedBy = &actor.ID

		if err := repos.ReceivableRepo().Create(ctx, r); err != nil {
			// A concurrent create for the same order won the race; surface
			// the winner instead of an error.
			if errors.Is(err, shared.ErrAlreadyExists) {
				winner, findErr := repos.ReceivableRepo().FindByOrderID(ctx, tenantID, req.OrderID)
				if findErr != nil {
					return findErr
				}
				result = winner
				return nil
			}
			return err
		}

		result = r
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.publishDomainEvents(ctx, result)
	}

	response := ToReceivableResponse(result, time.Now().UTC())
	return &response, nil
}

// WriteOff forgives part or all of a receivable's open balance. Only the top
// tier may write off; the reason is mandatory and recorded for audit.
func (s *ReceivableService) WriteOff(ctx context.Context, actor authz.Actor, req WriteOffRequest) (*ReceivableResponse, error) {
	if !actor.Role.AtLeast(authz.RoleOwner) {
		return nil, shared.ErrAuthorizationDenied
	}

	tenantID := s.targetTenant(actor, req.TenantID)

	var result *receivables.Receivable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReceivableRepo().FindByIDForTenant(ctx, tenantID, req.ReceivableID)
		if err != nil {
			return err
		}

		resource := authz.Resource{TenantID: r.TenantID, CreatedBy: r.CreatedBy, DeletedAt: r.DeletedAt}
		if err := s.guard.Authorize(actor, resource, authz.ActionUpdate); err != nil {
			return err
		}

		if err := r.WriteOff(req.Amount, req.Reason); err != nil {
			return err
		}
		if err := repos.ReceivableRepo().Save(ctx, r); err != nil {
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, result)

	response := ToReceivableResponse(result, time.Now().UTC())
	return &response, nil
}

// GetByID retrieves a receivable by ID
func (s *ReceivableService) GetByID(ctx context.Context, actor authz.Actor, tenantID, id uuid.UUID) (*ReceivableResponse, error) {
	tenantID = s.targetTenant(actor, tenantID)

	var response *ReceivableResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReceivableRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		resource := authz.Resource{TenantID: r.TenantID, CreatedBy: r.CreatedBy, DeletedAt: r.DeletedAt}
		if err := s.guard.Authorize(actor, resource, authz.ActionRead); err != nil {
			return err
		}

		resp := ToReceivableResponse(r, time.Now().UTC())
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List lists receivables for a tenant with filtering
func (s *ReceivableService) List(ctx context.Context, actor authz.Actor, tenantID uuid.UUID, filter shared.Filter) ([]ReceivableResponse, int64, error) {
	tenantID = s.targetTenant(actor, tenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionRead); err != nil {
		return nil, 0, err
	}

	var (
		items []receivables.Receivable
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, total, err = repos.ReceivableRepo().ListForTenant(ctx, tenantID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToReceivableResponses(items, time.Now().UTC()), total, nil
}

// AgingReport groups the tenant's open balances into aging buckets as of the
// given instant. The classification is derived on the fly, never persisted.
func (s *ReceivableService) AgingReport(ctx context.Context, actor authz.Actor, tenantID uuid.UUID, asOf time.Time) (*AgingReportResponse, error) {
	tenantID = s.targetTenant(actor, tenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionRead); err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	var items []receivables.Receivable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Walk the whole open set page by page; the report must never
		// silently drop rows for large tenants.
		for page := 1; ; page++ {
			batch, _, err := repos.ReceivableRepo().ListForTenant(ctx, tenantID, shared.Filter{
				Page:     page,
				PageSize: agingScanPageSize,
				OrderBy:  "created_at",
				OrderDir: "asc",
				Filters:  map[string]interface{}{"open_balance": true},
			})
			if err != nil {
				return err
			}
			items = append(items, batch...)
			if len(batch) < agingScanPageSize {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}

	order := []receivables.Bucket{
		receivables.BucketCurrent,
		receivables.Bucket1To30,
		receivables.Bucket31To60,
		receivables.Bucket61To90,
		receivables.BucketOver90,
	}
	counts := make(map[receivables.Bucket]int)
	totals := make(map[receivables.Bucket]decimal.Decimal)
	grand := decimal.Zero

	for i := range items {
		r := &items[i]
		balance := r.Balance()
		if !balance.IsPositive() || r.Status.IsClosed() {
			continue
		}
		bucket := receivables.AgingBucket(r.DueDate, asOf)
		counts[bucket]++
		totals[bucket] = totals[bucket].Add(balance)
		grand = grand.Add(balance)
	}

	report := &AgingReportResponse{AsOf: asOf, Total: grand}
	for _, bucket := range order {
		total, ok := totals[bucket]
		if !ok {
			total = decimal.Zero
		}
		report.Buckets = append(report.Buckets, AgingBucketTotal{
			Bucket: string(bucket),
			Count:  counts[bucket],
			Total:  total,
		})
	}
	return report, nil
}
