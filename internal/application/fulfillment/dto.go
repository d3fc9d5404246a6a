package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is one fulfilled line of an order
type OrderLine struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	LineTotal decimal.Decimal `json:"line_total" binding:"required"`
}

// OrderFulfilledRequest is the inbound order-fulfilled event.
// TenantID is resolved by the transport layer, never from the request body.
type OrderFulfilledRequest struct {
	TenantID   uuid.UUID   `json:"-"`
	OrderID    uuid.UUID   `json:"order_id" binding:"required"`
	CustomerID uuid.UUID   `json:"customer_id" binding:"required"`
	LocationID uuid.UUID   `json:"location_id" binding:"required"`
	DueDate    time.Time   `json:"due_date" binding:"required"`
	Lines      []OrderLine `json:"lines" binding:"required,min=1,dive"`
}

// TotalAmount sums the line totals
func (r OrderFulfilledRequest) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

// OrderFulfilledResponse reports the effects of one order-fulfilled event
type OrderFulfilledResponse struct {
	OrderID      uuid.UUID       `json:"order_id"`
	ReceivableID uuid.UUID       `json:"receivable_id"`
	Amount       decimal.Decimal `json:"amount"`
	MovementIDs  []uuid.UUID     `json:"movement_ids"`
	Duplicate    bool            `json:"duplicate"` // event was already processed
}
