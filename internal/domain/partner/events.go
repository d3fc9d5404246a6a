package partner

import (
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the partner context
const (
	EventTypeCustomerCreated       = "partner.customer.created"
	EventTypeCustomerCreditChanged = "partner.customer.credit_changed"

	aggregateTypeCustomer = "Customer"
)

// CustomerCreatedEvent is emitted when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, aggregateTypeCustomer, c.ID, c.TenantID),
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CustomerCreditChangedEvent is emitted when the standing credit balance moves
type CustomerCreditChangedEvent struct {
	shared.BaseDomainEvent
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// NewCustomerCreditChangedEvent creates a new CustomerCreditChangedEvent
func NewCustomerCreditChangedEvent(c *Customer, before, after decimal.Decimal) *CustomerCreditChangedEvent {
	return &CustomerCreditChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreditChanged, aggregateTypeCustomer, c.ID, c.TenantID),
		BalanceBefore:   before,
		BalanceAfter:    after,
	}
}
