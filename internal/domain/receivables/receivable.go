package receivables

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a receivable
type Status string

const (
	StatusOpen       Status = "open"        // no payment received yet
	StatusPartial    Status = "partial"     // 0 < paid+writeoff < original
	StatusPaid       Status = "paid"        // balance reached zero via payments
	StatusOverdue    Status = "overdue"     // past due with positive balance
	StatusWrittenOff Status = "written_off" // balance reached zero via write-off
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusPartial, StatusPaid, StatusOverdue, StatusWrittenOff:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsClosed returns true if the receivable can no longer change through payments
func (s Status) IsClosed() bool {
	return s == StatusPaid || s == StatusWrittenOff
}

// CanReceivePayment returns true if payment allocation may target this status
func (s Status) CanReceivePayment() bool {
	return s == StatusOpen || s == StatusPartial || s == StatusOverdue
}

// Receivable is an amount owed by a customer for a fulfilled order.
// Exactly one receivable exists per order (unique constraint on OrderID);
// it is soft-closed via status, never physically deleted.
type Receivable struct {
	shared.TenantAggregateRoot
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_receivable_order"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OriginalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WriteOffAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueDate        time.Time       `gorm:"type:timestamptz;not null;index"`
	Status         Status          `gorm:"type:varchar(20);not null;index"`
	PaidAt         *time.Time      `gorm:"type:timestamptz"`
	WrittenOffAt   *time.Time      `gorm:"type:timestamptz"`
	WriteOffReason string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Receivable) TableName() string {
	return "receivables"
}

// NewReceivable creates a receivable for a fulfilled order
func NewReceivable(tenantID, orderID, customerID uuid.UUID, amount decimal.Decimal, dueDate time.Time) (*Receivable, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Original amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	r := &Receivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		CustomerID:          customerID,
		OriginalAmount:      amount,
		PaidAmount:          decimal.Zero,
		WriteOffAmount:      decimal.Zero,
		DueDate:             dueDate.UTC(),
		Status:              StatusOpen,
	}

	r.AddDomainEvent(NewReceivableCreatedEvent(r))

	return r, nil
}

// Balance returns original - paid - writeoff. It is never negative on a
// consistent receivable.
func (r *Receivable) Balance() decimal.Decimal {
	return r.OriginalAmount.Sub(r.PaidAmount).Sub(r.WriteOffAmount)
}

// ApplyPayment records an allocated payment amount. The allocator is
// responsible for never allocating more than the open balance; exceeding it
// here is an invariant violation that must abort the whole transaction.
func (r *Receivable) ApplyPayment(amount decimal.Decimal) error {
	if !r.Status.CanReceivePayment() {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply payment to a "+r.Status.String()+" receivable")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(r.Balance()) {
		return shared.ErrAllocationInvariant
	}

	r.PaidAmount = r.PaidAmount.Add(amount)

	now := time.Now().UTC()
	if r.Balance().IsZero() {
		r.Status = StatusPaid
		r.PaidAt = &now
		r.AddDomainEvent(NewReceivablePaidEvent(r))
	} else {
		r.Status = StatusPartial
		r.AddDomainEvent(NewReceivablePartiallyPaidEvent(r, amount))
	}

	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// WriteOff forgives part or all of the open balance. The written_off status
// is reached only when the balance hits zero through this path.
func (r *Receivable) WriteOff(amount decimal.Decimal, reason string) error {
	if r.Status.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", "Cannot write off a "+r.Status.String()+" receivable")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Write-off amount must be positive")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Write-off reason is required")
	}
	if amount.GreaterThan(r.Balance()) {
		return shared.ErrAllocationInvariant
	}

	r.WriteOffAmount = r.WriteOffAmount.Add(amount)
	r.WriteOffReason = reason

	now := time.Now().UTC()
	if r.Balance().IsZero() {
		r.Status = StatusWrittenOff
		r.WrittenOffAt = &now
	} else if r.Status == StatusOpen {
		// Part of the balance is now settled; overdue stays overdue.
		r.Status = StatusPartial
	}
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReceivableWrittenOffEvent(r, amount, reason))

	return nil
}

// MarkOverdue transitions the receivable to overdue if it qualifies as of the
// given instant. Returns true when the state actually changed, so repeated
// sweeps are no-ops. The balance re-check mirrors the conditional write the
// sweep performs under the row lock.
func (r *Receivable) MarkOverdue(asOf time.Time) bool {
	if r.Status != StatusOpen && r.Status != StatusPartial {
		return false
	}
	if !r.DueDate.Before(asOf) {
		return false
	}
	if !r.Balance().IsPositive() {
		return false
	}

	r.Status = StatusOverdue
	r.UpdatedAt = time.Now().UTC()
	r.IncrementVersion()

	r.AddDomainEvent(NewReceivableOverdueEvent(r, asOf))

	return true
}
