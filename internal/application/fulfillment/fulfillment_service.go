package fulfillment

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FulfillmentService consumes order-fulfilled events: it deducts stock for
// every line and opens the receivable for the order in one transaction.
// Duplicate deliveries of the same event are absorbed twice over: a fast
// check against the idempotency store, and the receivable's per-order
// uniqueness inside the transaction.
type FulfillmentService struct {
	scope             TransactionScope
	guard             *authz.Guard
	idempotencyStore  shared.IdempotencyStore
	idempotencyConfig shared.IdempotencyConfig
	eventPublisher    shared.EventPublisher
	backorderDefault  bool
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(scope TransactionScope, store shared.IdempotencyStore, cfg shared.IdempotencyConfig) *FulfillmentService {
	return &FulfillmentService{
		scope:             scope,
		guard:             authz.NewGuard(),
		idempotencyStore:  store,
		idempotencyConfig: cfg,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *FulfillmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBackorderDefault sets the tenant-wide negative-balance policy for
// fulfillment deductions
func (s *FulfillmentService) SetBackorderDefault(allow bool) {
	s.backorderDefault = allow
}

func idempotencyKey(orderID uuid.UUID) string {
	return "fulfillment:order:" + orderID.String()
}

// HandleOrderFulfilled processes one order-fulfilled event. On success the
// order's receivable exists and every line's OUT movement is recorded; a
// replay of the same order returns the existing receivable without moving
// stock again.
func (s *FulfillmentService) HandleOrderFulfilled(ctx context.Context, actor authz.Actor, req OrderFulfilledRequest) (*OrderFulfilledResponse, error) {
	tenantID := req.TenantID
	if tenantID == uuid.Nil {
		tenantID = actor.TenantID
	}
	resource := authz.Resource{TenantID: tenantID, LocationID: &req.LocationID}
	if err := s.guard.Authorize(actor, resource, authz.ActionCreate); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order must have at least one line")
	}

	response := &OrderFulfilledResponse{OrderID: req.OrderID, Amount: req.TotalAmount()}

	// Fast path: a previously processed event short-circuits before any locks.
	if s.idempotencyConfig.Enabled && s.idempotencyStore != nil {
		processed, err := s.idempotencyStore.IsProcessed(ctx, idempotencyKey(req.OrderID))
		if err == nil && processed {
			return s.duplicateResponse(ctx, tenantID, req, response)
		}
	}

	var receivable *receivables.Receivable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Authoritative duplicate check: the receivable is unique per order
		// and commits with the movements, so its existence proves the whole
		// event already went through.
		existing, err := repos.ReceivableRepo().FindByOrderID(ctx, tenantID, req.OrderID)
		if err == nil {
			receivable = existing
			response.Duplicate = true
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		for _, line := range req.Lines {
			balance, err := repos.BalanceRepo().GetOrCreateForUpdate(ctx, tenantID, line.ProductID, req.LocationID)
			if err != nil {
				return err
			}

			result, err := balance.Apply(inventory.MovementOut, line.Quantity, s.backorderDefault)
			if err != nil {
				return err
			}

			movement, err := inventory.NewMovement(
				tenantID, line.ProductID, req.LocationID,
				inventory.MovementOut, line.Quantity, result.Delta, result.Before, result.After,
				uuid.New(), req.OrderID.String(),
			)
			if err != nil {
				return err
			}
			movement.WithReason("order fulfillment")
			if result.Backordered {
				movement.WithBackordered()
			}

			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}
			if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
				return err
			}
			response.MovementIDs = append(response.MovementIDs, movement.ID)
		}

		r, err := receivables.NewReceivable(tenantID, req.OrderID, req.CustomerID, req.TotalAmount(), req.DueDate)
		if err != nil {
			return err
		}
		r.CreatedBy = &actor.ID

		if err := repos.ReceivableRepo().Create(ctx, r); err != nil {
			return err
		}
		receivable = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	response.ReceivableID = receivable.ID
	response.Amount = receivable.OriginalAmount

	if !response.Duplicate {
		s.markProcessed(ctx, req.OrderID)
		s.publishDomainEvents(ctx, receivable)
	}
	return response, nil
}

// duplicateResponse resolves the existing receivable for a replayed event
func (s *FulfillmentService) duplicateResponse(ctx context.Context, tenantID uuid.UUID, req OrderFulfilledRequest, response *OrderFulfilledResponse) (*OrderFulfilledResponse, error) {
	response.Duplicate = true
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.ReceivableRepo().FindByOrderID(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}
		response.ReceivableID = existing.ID
		response.Amount = existing.OriginalAmount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *FulfillmentService) markProcessed(ctx context.Context, orderID uuid.UUID) {
	if !s.idempotencyConfig.Enabled || s.idempotencyStore == nil {
		return
	}
	// Best effort: the receivable's uniqueness still protects a replay that
	// slips past a failed mark.
	_, _ = s.idempotencyStore.MarkProcessed(ctx, idempotencyKey(orderID), s.idempotencyConfig.TTL)
}

func (s *FulfillmentService) publishDomainEvents(ctx context.Context, r *receivables.Receivable) {
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
