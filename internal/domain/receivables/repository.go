package receivables

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceivableRepository persists receivables
type ReceivableRepository interface {
	// FindByIDForTenant finds a receivable by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Receivable, error)

	// FindByOrderID finds the receivable created for an order, if any
	FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*Receivable, error)

	// Create inserts a new receivable. A duplicate order ID surfaces
	// shared.ErrAlreadyExists via the unique constraint.
	Create(ctx context.Context, receivable *Receivable) error

	// Save persists changes with an optimistic version check
	Save(ctx context.Context, receivable *Receivable) error

	// FindPayableByCustomerForUpdate returns the customer's receivables with
	// status in {open, partial, overdue} and positive balance, row-locked for
	// the enclosing transaction, ordered by due date ascending then creation
	// order (oldest obligation first).
	FindPayableByCustomerForUpdate(ctx context.Context, tenantID, customerID uuid.UUID) ([]Receivable, error)

	// FindOverdueCandidatesForUpdate returns open/partial receivables with a
	// due date before asOf and positive balance, row-locked, for the sweep.
	FindOverdueCandidatesForUpdate(ctx context.Context, asOf time.Time, limit int) ([]Receivable, error)

	// ListForTenant lists receivables for a tenant with filtering
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Receivable, int64, error)
}

// PaymentRepository persists payments and their allocations
type PaymentRepository interface {
	// CreatePayment inserts an immutable payment record
	CreatePayment(ctx context.Context, payment *Payment) error

	// CreateAllocations inserts the allocations produced by one payment walk
	CreateAllocations(ctx context.Context, allocations []Allocation) error

	// FindPaymentByIDForTenant finds a payment by ID within a tenant
	FindPaymentByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// ListAllocationsByPayment returns all allocations for a payment
	ListAllocationsByPayment(ctx context.Context, tenantID, paymentID uuid.UUID) ([]Allocation, error)

	// ListAllocationsByReceivable returns all allocations against a receivable
	ListAllocationsByReceivable(ctx context.Context, tenantID, receivableID uuid.UUID) ([]Allocation, error)
}
