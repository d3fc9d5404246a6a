package receivables

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the receivables engine
const (
	EventTypeReceivableCreated       = "receivables.created"
	EventTypeReceivablePaid          = "receivables.paid"
	EventTypeReceivablePartiallyPaid = "receivables.partially_paid"
	EventTypeReceivableOverdue       = "receivables.overdue"
	EventTypeReceivableWrittenOff    = "receivables.written_off"

	aggregateTypeReceivable = "Receivable"
)

// ReceivableCreatedEvent is emitted when a receivable is created from a fulfilled order
type ReceivableCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
}

// NewReceivableCreatedEvent creates a new ReceivableCreatedEvent
func NewReceivableCreatedEvent(r *Receivable) *ReceivableCreatedEvent {
	return &ReceivableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableCreated, aggregateTypeReceivable, r.ID, r.TenantID),
		OrderID:         r.OrderID.String(),
		CustomerID:      r.CustomerID.String(),
		Amount:          r.OriginalAmount,
		DueDate:         r.DueDate,
	}
}

// ReceivablePaidEvent is emitted when a receivable balance reaches zero through payments
type ReceivablePaidEvent struct {
	shared.BaseDomainEvent
	CustomerID string          `json:"customer_id"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// NewReceivablePaidEvent creates a new ReceivablePaidEvent
func NewReceivablePaidEvent(r *Receivable) *ReceivablePaidEvent {
	return &ReceivablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivablePaid, aggregateTypeReceivable, r.ID, r.TenantID),
		CustomerID:      r.CustomerID.String(),
		PaidAmount:      r.PaidAmount,
	}
}

// ReceivablePartiallyPaidEvent is emitted when a payment leaves a positive balance
type ReceivablePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewReceivablePartiallyPaidEvent creates a new ReceivablePartiallyPaidEvent
func NewReceivablePartiallyPaidEvent(r *Receivable, amount decimal.Decimal) *ReceivablePartiallyPaidEvent {
	return &ReceivablePartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivablePartiallyPaid, aggregateTypeReceivable, r.ID, r.TenantID),
		CustomerID:      r.CustomerID.String(),
		Amount:          amount,
		Balance:         r.Balance(),
	}
}

// ReceivableOverdueEvent is emitted when the sweep transitions a receivable to overdue
type ReceivableOverdueEvent struct {
	shared.BaseDomainEvent
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
	AsOf       time.Time       `json:"as_of"`
}

// NewReceivableOverdueEvent creates a new ReceivableOverdueEvent
func NewReceivableOverdueEvent(r *Receivable, asOf time.Time) *ReceivableOverdueEvent {
	return &ReceivableOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableOverdue, aggregateTypeReceivable, r.ID, r.TenantID),
		CustomerID:      r.CustomerID.String(),
		Balance:         r.Balance(),
		AsOf:            asOf,
	}
}

// ReceivableWrittenOffEvent is emitted when part of the balance is forgiven
type ReceivableWrittenOffEvent struct {
	shared.BaseDomainEvent
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewReceivableWrittenOffEvent creates a new ReceivableWrittenOffEvent
func NewReceivableWrittenOffEvent(r *Receivable, amount decimal.Decimal, reason string) *ReceivableWrittenOffEvent {
	return &ReceivableWrittenOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableWrittenOff, aggregateTypeReceivable, r.ID, r.TenantID),
		CustomerID:      r.CustomerID.String(),
		Amount:          amount,
		Reason:          reason,
		Balance:         r.Balance(),
	}
}
