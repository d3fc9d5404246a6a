package receivables

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodOther    PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is a customer-initiated inbound amount. Immutable once recorded;
// its effect on receivables is carried entirely by allocations.
type Payment struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference  string          `gorm:"type:varchar(100)"`
	ReceivedAt time.Time       `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment records an inbound customer payment
func NewPayment(tenantID, customerID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string, receivedAt time.Time) (*Payment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		CustomerID: customerID,
		Amount:     amount,
		Method:     method,
		Reference:  reference,
		ReceivedAt: receivedAt.UTC(),
	}, nil
}

// Allocation links a payment to a receivable with the amount applied.
// For one payment the allocated amounts never exceed the payment amount;
// for one receivable allocations plus write-offs never exceed the original.
type Allocation struct {
	shared.BaseEntity
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceivableID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Allocation) TableName() string {
	return "payment_allocations"
}

// NewAllocation creates an allocation of a payment against a receivable
func NewAllocation(tenantID, paymentID, receivableID uuid.UUID, amount decimal.Decimal) (*Allocation, error) {
	if paymentID == uuid.Nil || receivableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Payment and receivable IDs are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	return &Allocation{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		PaymentID:    paymentID,
		ReceivableID: receivableID,
		Amount:       amount,
	}, nil
}

// SumAllocations returns the total amount across allocations
func SumAllocations(allocations []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	return total
}
