package receivables

import (
	"context"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService records inbound payments and allocates them across the
// paying customer's open receivables, oldest due date first. The whole walk
// runs under row locks in one transaction; any surplus beyond the customer's
// total open balance becomes standing customer credit.
type PaymentService struct {
	scope          TransactionScope
	guard          *authz.Guard
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope) *PaymentService {
	return &PaymentService{
		scope: scope,
		guard: authz.NewGuard(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PaymentService) publishDomainEvents(ctx context.Context, touched []*receivables.Receivable) {
	if s.eventPublisher == nil {
		return
	}
	for _, r := range touched {
		events := r.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		r.ClearDomainEvents()
	}
}

// ApplyPayment records the payment and walks the customer's payable
// receivables in due-date order, allocating min(remaining, balance) to each.
// Receivable rows are locked for the duration of the walk so two concurrent
// payments for the same customer serialize instead of double-allocating.
func (s *PaymentService) ApplyPayment(ctx context.Context, actor authz.Actor, req ApplyPaymentRequest) (*PaymentResponse, error) {
	tenantID := req.TenantID
	if tenantID == uuid.Nil {
		tenantID = actor.TenantID
	}
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionCreate); err != nil {
		return nil, err
	}

	method := receivables.PaymentMethod(req.Method)
	payment, err := receivables.NewPayment(tenantID, req.CustomerID, req.Amount, method, req.Reference, req.ReceivedAt)
	if err != nil {
		return nil, err
	}

	var (
		allocations []receivables.Allocation
		touched     []*receivables.Receivable
		surplus     decimal.Decimal
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.PaymentRepo().CreatePayment(ctx, payment); err != nil {
			return err
		}

		open, err := repos.ReceivableRepo().FindPayableByCustomerForUpdate(ctx, tenantID, req.CustomerID)
		if err != nil {
			return err
		}

		remaining := req.Amount
		for i := range open {
			if !remaining.IsPositive() {
				break
			}
			r := &open[i]

			share := decimal.Min(remaining, r.Balance())
			if !share.IsPositive() {
				continue
			}

			if err := r.ApplyPayment(share); err != nil {
				return err
			}
			if err := repos.ReceivableRepo().Save(ctx, r); err != nil {
				return err
			}

			allocation, err := receivables.NewAllocation(tenantID, payment.ID, r.ID, share)
			if err != nil {
				return err
			}
			allocations = append(allocations, *allocation)
			touched = append(touched, r)
			remaining = remaining.Sub(share)
		}

		if len(allocations) > 0 {
			if err := repos.PaymentRepo().CreateAllocations(ctx, allocations); err != nil {
				return err
			}
		}

		// Allocated total may never exceed the payment amount.
		if receivables.SumAllocations(allocations).GreaterThan(req.Amount) {
			return shared.ErrAllocationInvariant
		}

		surplus = remaining
		if surplus.IsPositive() {
			return s.creditSurplus(ctx, repos, payment, surplus)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, touched)

	response := &PaymentResponse{
		ID:         payment.ID,
		CustomerID: payment.CustomerID,
		Amount:     payment.Amount,
		Method:     string(payment.Method),
		Reference:  payment.Reference,
		ReceivedAt: payment.ReceivedAt,
		Surplus:    surplus,
	}
	for _, a := range allocations {
		response.Allocations = append(response.Allocations, AllocationResponse{
			ReceivableID: a.ReceivableID,
			Amount:       a.Amount,
		})
	}
	return response, nil
}

// creditSurplus moves an unallocatable remainder onto the customer's
// standing credit, recording the change in the append-only credit ledger.
func (s *PaymentService) creditSurplus(ctx context.Context, repos TransactionalRepositories, payment *receivables.Payment, surplus decimal.Decimal) error {
	customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, payment.TenantID, payment.CustomerID)
	if err != nil {
		return err
	}

	creditTx, err := partner.CreateSurplusTransaction(payment.TenantID, payment.CustomerID, surplus, customer.CreditBalance)
	if err != nil {
		return err
	}
	creditTx.WithSourceID(payment.ID).WithRemark("payment surplus")

	if err := customer.AddCredit(surplus); err != nil {
		return err
	}
	if err := repos.CustomerRepo().Save(ctx, customer); err != nil {
		return err
	}
	return repos.BalanceTxRepo().Create(ctx, creditTx)
}

// GetPayment retrieves a payment with its allocations
func (s *PaymentService) GetPayment(ctx context.Context, actor authz.Actor, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	if tenantID == uuid.Nil {
		tenantID = actor.TenantID
	}
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionRead); err != nil {
		return nil, err
	}

	var response *PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindPaymentByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		allocations, err := repos.PaymentRepo().ListAllocationsByPayment(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}

		response = &PaymentResponse{
			ID:         payment.ID,
			CustomerID: payment.CustomerID,
			Amount:     payment.Amount,
			Method:     string(payment.Method),
			Reference:  payment.Reference,
			ReceivedAt: payment.ReceivedAt,
			Surplus:    payment.Amount.Sub(receivables.SumAllocations(allocations)),
		}
		for _, a := range allocations {
			response.Allocations = append(response.Allocations, AllocationResponse{
				ReceivableID: a.ReceivableID,
				Amount:       a.Amount,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
