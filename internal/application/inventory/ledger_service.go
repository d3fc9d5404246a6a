package inventory

import (
	"bytes"
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerService coordinates stock movements against the append-only ledger.
// Every mutation runs guard-first and commits the movement record together
// with the balance snapshot in one transaction.
type LedgerService struct {
	scope            TransactionScope
	guard            *authz.Guard
	eventPublisher   shared.EventPublisher
	backorderDefault bool // tenant-wide policy from configuration
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope) *LedgerService {
	return &LedgerService{
		scope: scope,
		guard: authz.NewGuard(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBackorderDefault sets the tenant-wide negative-balance policy
func (s *LedgerService) SetBackorderDefault(allow bool) {
	s.backorderDefault = allow
}

// publishDomainEvents publishes the balance's domain events after commit.
// Errors are logged by the event bus, not propagated.
func (s *LedgerService) publishDomainEvents(ctx context.Context, balance *inventory.Balance) {
	if s.eventPublisher == nil || balance == nil {
		return
	}
	events := balance.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	balance.ClearDomainEvents()
}

func (s *LedgerService) targetTenant(actor authz.Actor, requested uuid.UUID) uuid.UUID {
	if requested != uuid.Nil {
		return requested
	}
	return actor.TenantID
}

// RecordMovement records a single IN or OUT movement. An OUT that would
// drive the balance negative is rejected unless the tenant policy allows
// backorders or a top-tier actor overrides per call; an override produces a
// movement flagged as backordered.
func (s *LedgerService) RecordMovement(ctx context.Context, actor authz.Actor, req RecordMovementRequest) (*MovementResponse, error) {
	kind := inventory.MovementKind(req.Kind)
	if kind != inventory.MovementIn && kind != inventory.MovementOut {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_KIND", "Movement kind must be IN or OUT")
	}

	tenantID := s.targetTenant(actor, req.TenantID)
	resource := authz.Resource{TenantID: tenantID, LocationID: &req.LocationID}
	if err := s.guard.Authorize(actor, resource, authz.ActionCreate); err != nil {
		return nil, err
	}

	allowBackorder := s.backorderDefault
	if req.AllowBackorder {
		if !actor.Role.AtLeast(authz.RoleOwner) {
			return nil, shared.ErrAuthorizationDenied
		}
		allowBackorder = true
	}

	var (
		movement *inventory.Movement
		balance  *inventory.Balance
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BalanceRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		result, err := b.Apply(kind, req.Quantity, allowBackorder)
		if err != nil {
			return err
		}

		m, err := inventory.NewMovement(
			tenantID, req.ProductID, req.LocationID,
			kind, req.Quantity, result.Delta, result.Before, result.After,
			uuid.New(), req.Reference,
		)
		if err != nil {
			return err
		}
		m.WithReason(req.Reason)
		if result.Backordered {
			m.WithBackordered()
		}

		if err := repos.MovementRepo().Append(ctx, m); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, b); err != nil {
			return err
		}

		movement = m
		balance = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, balance)

	response := ToMovementResponse(movement)
	return &response, nil
}

// Transfer moves stock between two locations of the same tenant. Both legs
// share a correlation ID and commit atomically; a shortfall at the source
// rejects the whole transfer. Balance rows are locked in a deterministic
// order so two opposing transfers cannot deadlock.
func (s *LedgerService) Transfer(ctx context.Context, actor authz.Actor, req TransferRequest) (*TransferResponse, error) {
	if req.FromLocationID == req.ToLocationID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination locations must differ")
	}

	tenantID := s.targetTenant(actor, req.TenantID)
	// The actor needs standing at both ends of the transfer.
	for _, loc := range []uuid.UUID{req.FromLocationID, req.ToLocationID} {
		locID := loc
		if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID, LocationID: &locID}, authz.ActionCreate); err != nil {
			return nil, err
		}
	}

	correlationID := uuid.New()

	var (
		outMovement *inventory.Movement
		inMovement  *inventory.Movement
		source      *inventory.Balance
		dest        *inventory.Balance
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Lock in UUID order regardless of transfer direction.
		firstLoc, secondLoc := req.FromLocationID, req.ToLocationID
		if bytes.Compare(secondLoc[:], firstLoc[:]) < 0 {
			firstLoc, secondLoc = secondLoc, firstLoc
		}

		first, err := repos.BalanceRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, firstLoc)
		if err != nil {
			return err
		}
		second, err := repos.BalanceRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, secondLoc)
		if err != nil {
			return err
		}

		source, dest = first, second
		if source.LocationID != req.FromLocationID {
			source, dest = second, first
		}

		outResult, err := source.Apply(inventory.MovementTransferOut, req.Quantity, false)
		if err != nil {
			return err
		}
		inResult, err := dest.Apply(inventory.MovementTransferIn, req.Quantity, false)
		if err != nil {
			return err
		}

		out, err := inventory.NewMovement(
			tenantID, req.ProductID, req.FromLocationID,
			inventory.MovementTransferOut, req.Quantity, outResult.Delta, outResult.Before, outResult.After,
			correlationID, req.Reference,
		)
		if err != nil {
			return err
		}
		in, err := inventory.NewMovement(
			tenantID, req.ProductID, req.ToLocationID,
			inventory.MovementTransferIn, req.Quantity, inResult.Delta, inResult.Before, inResult.After,
			correlationID, req.Reference,
		)
		if err != nil {
			return err
		}
		out.WithReason(req.Reason)
		in.WithReason(req.Reason)

		if err := repos.MovementRepo().Append(ctx, out); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, in); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, source); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, dest); err != nil {
			return err
		}

		outMovement, inMovement = out, in
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, source)
	s.publishDomainEvents(ctx, dest)

	return &TransferResponse{
		CorrelationID: correlationID,
		Outbound:      ToMovementResponse(outMovement),
		Inbound:       ToMovementResponse(inMovement),
	}, nil
}

// RecordAdjustment reconciles a balance to a physically counted quantity.
// The resulting movement records the magnitude of the correction with a
// signed delta; a count equal to the current balance is rejected as a no-op.
func (s *LedgerService) RecordAdjustment(ctx context.Context, actor authz.Actor, req AdjustmentRequest) (*MovementResponse, error) {
	tenantID := s.targetTenant(actor, req.TenantID)
	resource := authz.Resource{TenantID: tenantID, LocationID: &req.LocationID}
	if err := s.guard.Authorize(actor, resource, authz.ActionUpdate); err != nil {
		return nil, err
	}

	var (
		movement *inventory.Movement
		balance  *inventory.Balance
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BalanceRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		result, err := b.AdjustTo(req.CountedQuantity)
		if err != nil {
			return err
		}

		m, err := inventory.NewMovement(
			tenantID, req.ProductID, req.LocationID,
			inventory.MovementAdjust, result.Delta.Abs(), result.Delta, result.Before, result.After,
			uuid.New(), "",
		)
		if err != nil {
			return err
		}
		m.WithReason(req.Reason)

		if err := repos.MovementRepo().Append(ctx, m); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, b); err != nil {
			return err
		}

		movement = m
		balance = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, balance)

	response := ToMovementResponse(movement)
	return &response, nil
}

// Reconcile replays a key's movement history against its snapshot and
// verifies the before/after chain. With Repair set (top tier only) a drifted
// snapshot is rebased onto the replayed quantity under the row lock.
func (s *LedgerService) Reconcile(ctx context.Context, actor authz.Actor, req ReconcileRequest) (*ReconcileResponse, error) {
	tenantID := s.targetTenant(actor, req.TenantID)
	resource := authz.Resource{TenantID: tenantID, LocationID: &req.LocationID}

	action := authz.ActionRead
	if req.Repair {
		action = authz.ActionUpdate
		if !actor.Role.AtLeast(authz.RoleOwner) {
			return nil, shared.ErrAuthorizationDenied
		}
	}
	if err := s.guard.Authorize(actor, resource, action); err != nil {
		return nil, err
	}

	response := &ReconcileResponse{ProductID: req.ProductID, LocationID: req.LocationID}

	var balance *inventory.Balance
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var b *inventory.Balance
		var err error
		if req.Repair {
			b, err = repos.BalanceRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, req.LocationID)
		} else {
			b, err = repos.BalanceRepo().FindByKey(ctx, tenantID, req.ProductID, req.LocationID)
			if err != nil && errors.Is(err, shared.ErrNotFound) {
				b, err = inventory.NewBalance(tenantID, req.ProductID, req.LocationID)
			}
		}
		if err != nil {
			return err
		}

		movements, err := repos.MovementRepo().ListByKey(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		replayed := inventory.Rebuild(movements)
		response.Snapshot = b.OnHand
		response.Replayed = replayed
		response.Drift = b.OnHand.Sub(replayed)
		response.ChainIntact = inventory.VerifyChain(movements) == nil

		if req.Repair && !response.Drift.IsZero() {
			b.Rebase(replayed)
			if err := repos.BalanceRepo().Save(ctx, b); err != nil {
				return err
			}
			response.Repaired = true
			balance = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, balance)

	return response, nil
}

// GetBalance retrieves the balance snapshot for a (product, location) key
func (s *LedgerService) GetBalance(ctx context.Context, actor authz.Actor, tenantID, productID, locationID uuid.UUID) (*BalanceResponse, error) {
	tenantID = s.targetTenant(actor, tenantID)
	resource := authz.Resource{TenantID: tenantID, LocationID: &locationID}
	if err := s.guard.Authorize(actor, resource, authz.ActionRead); err != nil {
		return nil, err
	}

	var response *BalanceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.BalanceRepo().FindByKey(ctx, tenantID, productID, locationID)
		if err != nil {
			return err
		}
		r := ToBalanceResponse(balance)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListMovements lists a key's movement history in occurrence order
func (s *LedgerService) ListMovements(ctx context.Context, actor authz.Actor, tenantID, productID, locationID uuid.UUID) ([]MovementResponse, error) {
	tenantID = s.targetTenant(actor, tenantID)
	resource := authz.Resource{TenantID: tenantID, LocationID: &locationID}
	if err := s.guard.Authorize(actor, resource, authz.ActionRead); err != nil {
		return nil, err
	}

	var movements []inventory.Movement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movements, err = repos.MovementRepo().ListByKey(ctx, tenantID, productID, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}
