package receivables

import (
	"time"

	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReceivableRequest creates the receivable for a fulfilled order.
// TenantID is resolved by the transport layer, never from the request body.
type CreateReceivableRequest struct {
	TenantID   uuid.UUID       `json:"-"`
	OrderID    uuid.UUID       `json:"order_id" binding:"required"`
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	DueDate    time.Time       `json:"due_date" binding:"required"`
}

// ApplyPaymentRequest records a customer payment and allocates it
// oldest-due-first across the customer's open receivables
type ApplyPaymentRequest struct {
	TenantID   uuid.UUID       `json:"-"`
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Method     string          `json:"method" binding:"required,oneof=cash transfer card other"`
	Reference  string          `json:"reference" binding:"max=100"`
	ReceivedAt time.Time       `json:"received_at"`
}

// WriteOffRequest forgives part or all of a receivable's open balance
type WriteOffRequest struct {
	TenantID     uuid.UUID       `json:"-"`
	ReceivableID uuid.UUID       `json:"-"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Reason       string          `json:"reason" binding:"required,max=255"`
}

// ReceivableResponse is the API representation of a receivable
type ReceivableResponse struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"order_id"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	WriteOffAmount decimal.Decimal `json:"write_off_amount"`
	Balance        decimal.Decimal `json:"balance"`
	DueDate        time.Time       `json:"due_date"`
	Status         string          `json:"status"`
	AgingBucket    string          `json:"aging_bucket"`
	DaysOverdue    int             `json:"days_overdue"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	WrittenOffAt   *time.Time      `json:"written_off_at,omitempty"`
	WriteOffReason string          `json:"write_off_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToReceivableResponse converts a receivable to its API representation,
// deriving the aging bucket as of the given instant
func ToReceivableResponse(r *receivables.Receivable, asOf time.Time) ReceivableResponse {
	return ReceivableResponse{
		ID:             r.ID,
		OrderID:        r.OrderID,
		CustomerID:     r.CustomerID,
		OriginalAmount: r.OriginalAmount,
		PaidAmount:     r.PaidAmount,
		WriteOffAmount: r.WriteOffAmount,
		Balance:        r.Balance(),
		DueDate:        r.DueDate,
		Status:         r.Status.String(),
		AgingBucket:    string(receivables.AgingBucket(r.DueDate, asOf)),
		DaysOverdue:    receivables.DaysOverdue(r.DueDate, asOf),
		PaidAt:         r.PaidAt,
		WrittenOffAt:   r.WrittenOffAt,
		WriteOffReason: r.WriteOffReason,
		CreatedAt:      r.CreatedAt,
	}
}

// ToReceivableResponses converts a slice of receivables
func ToReceivableResponses(items []receivables.Receivable, asOf time.Time) []ReceivableResponse {
	responses := make([]ReceivableResponse, len(items))
	for i := range items {
		responses[i] = ToReceivableResponse(&items[i], asOf)
	}
	return responses
}

// AllocationResponse is one receivable's share of a payment
type AllocationResponse struct {
	ReceivableID uuid.UUID       `json:"receivable_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentResponse reports a recorded payment and how it was allocated
type PaymentResponse struct {
	ID          uuid.UUID            `json:"id"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      string               `json:"method"`
	Reference   string               `json:"reference,omitempty"`
	ReceivedAt  time.Time            `json:"received_at"`
	Allocations []AllocationResponse `json:"allocations"`
	Surplus     decimal.Decimal      `json:"surplus"` // credited to the customer
}

// AgingBucketTotal is one bucket of the aging report
type AgingBucketTotal struct {
	Bucket string          `json:"bucket"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// AgingReportResponse groups a customer's (or tenant's) open balances by age
type AgingReportResponse struct {
	AsOf    time.Time          `json:"as_of"`
	Buckets []AgingBucketTotal `json:"buckets"`
	Total   decimal.Decimal    `json:"total"`
}
