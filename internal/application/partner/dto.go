package partner

import (
	"time"

	"github.com/bizops/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest registers a customer. TenantID is resolved by the
// transport layer, never from the request body.
type CreateCustomerRequest struct {
	TenantID    uuid.UUID `json:"-"`
	Code        string    `json:"code" binding:"required,max=50"`
	Name        string    `json:"name" binding:"required,max=200"`
	ContactName string    `json:"contact_name" binding:"max=100"`
	Phone       string    `json:"phone" binding:"max=50"`
	Email       string    `json:"email" binding:"omitempty,email,max=200"`
	Notes       string    `json:"notes"`
}

// CreateLocationRequest registers a store, warehouse, or branch
type CreateLocationRequest struct {
	TenantID  uuid.UUID `json:"-"`
	Code      string    `json:"code" binding:"required,max=50"`
	Name      string    `json:"name" binding:"required,max=200"`
	Address   string    `json:"address"`
	IsDefault bool      `json:"is_default"`
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Status        string          `json:"status"`
	ContactName   string          `json:"contact_name,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToCustomerResponse converts a customer to its API representation
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Status:        string(c.Status),
		ContactName:   c.ContactName,
		Phone:         c.Phone,
		Email:         c.Email,
		CreditBalance: c.CreditBalance,
		CreatedAt:     c.CreatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(items []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(items))
	for i := range items {
		responses[i] = ToCustomerResponse(&items[i])
	}
	return responses
}

// LocationResponse is the API representation of a location
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// ToLocationResponse converts a location to its API representation
func ToLocationResponse(l *partner.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Name:      l.Name,
		Address:   l.Address,
		Status:    string(l.Status),
		IsDefault: l.IsDefault,
		CreatedAt: l.CreatedAt,
	}
}

// ToLocationResponses converts a slice of locations
func ToLocationResponses(items []partner.Location) []LocationResponse {
	responses := make([]LocationResponse, len(items))
	for i := range items {
		responses[i] = ToLocationResponse(&items[i])
	}
	return responses
}

// CreditEntryResponse is one record of the customer credit ledger
type CreditEntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	SourceID        *uuid.UUID      `json:"source_id,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ToCreditEntryResponses converts credit ledger records
func ToCreditEntryResponses(items []partner.BalanceTransaction) []CreditEntryResponse {
	responses := make([]CreditEntryResponse, len(items))
	for i := range items {
		tx := &items[i]
		responses[i] = CreditEntryResponse{
			ID:              tx.ID,
			TransactionType: tx.TransactionType.String(),
			Amount:          tx.Amount,
			BalanceBefore:   tx.BalanceBefore,
			BalanceAfter:    tx.BalanceAfter,
			SourceID:        tx.SourceID,
			Remark:          tx.Remark,
			TransactionDate: tx.TransactionDate,
		}
	}
	return responses
}
