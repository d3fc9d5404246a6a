package partner

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceTransactionType represents the type of customer credit transaction
type BalanceTransactionType string

const (
	// BalanceTransactionTypeSurplus records a payment surplus credited to the customer
	BalanceTransactionTypeSurplus BalanceTransactionType = "SURPLUS"
	// BalanceTransactionTypeConsume records credit being applied against a receivable
	BalanceTransactionTypeConsume BalanceTransactionType = "CONSUME"
	// BalanceTransactionTypeAdjustment records a manual correction
	BalanceTransactionTypeAdjustment BalanceTransactionType = "ADJUSTMENT"
)

// String returns the string representation of BalanceTransactionType
func (t BalanceTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t BalanceTransactionType) IsValid() bool {
	switch t {
	case BalanceTransactionTypeSurplus, BalanceTransactionTypeConsume, BalanceTransactionTypeAdjustment:
		return true
	}
	return false
}

// BalanceTransaction is an immutable record of a customer credit change.
// Corrections are made with new transactions, never by editing existing ones.
type BalanceTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	TransactionType BalanceTransactionType `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal        `gorm:"type:decimal(18,4);not null"` // Always positive, direction from type
	BalanceBefore   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	SourceID        *uuid.UUID             `gorm:"type:uuid;index"` // Payment that produced the surplus, if any
	Remark          string                 `gorm:"type:varchar(255)"`
	OperatorID      *uuid.UUID             `gorm:"type:uuid"`
	TransactionDate time.Time              `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (BalanceTransaction) TableName() string {
	return "customer_balance_transactions"
}

// NewBalanceTransaction creates a new credit transaction
func NewBalanceTransaction(
	tenantID, customerID uuid.UUID,
	txType BalanceTransactionType,
	amount, balanceBefore, balanceAfter decimal.Decimal,
) (*BalanceTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid balance transaction type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if balanceBefore.IsNegative() || balanceAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Credit balance cannot be negative")
	}

	return &BalanceTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		CustomerID:      customerID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		TransactionDate: time.Now().UTC(),
	}, nil
}

// WithSourceID sets the source document ID for the transaction
func (t *BalanceTransaction) WithSourceID(sourceID uuid.UUID) *BalanceTransaction {
	t.SourceID = &sourceID
	return t
}

// WithRemark sets the remark for the transaction
func (t *BalanceTransaction) WithRemark(remark string) *BalanceTransaction {
	t.Remark = remark
	return t
}

// WithOperatorID sets the operator ID for the transaction
func (t *BalanceTransaction) WithOperatorID(operatorID uuid.UUID) *BalanceTransaction {
	t.OperatorID = &operatorID
	return t
}

// BalanceChange returns the net credit change
func (t *BalanceTransaction) BalanceChange() decimal.Decimal {
	return t.BalanceAfter.Sub(t.BalanceBefore)
}

// CreateSurplusTransaction records an overpayment surplus being credited
func CreateSurplusTransaction(tenantID, customerID uuid.UUID, amount, balanceBefore decimal.Decimal) (*BalanceTransaction, error) {
	return NewBalanceTransaction(
		tenantID,
		customerID,
		BalanceTransactionTypeSurplus,
		amount,
		balanceBefore,
		balanceBefore.Add(amount),
	)
}

// CreateConsumeTransaction records credit being spent
func CreateConsumeTransaction(tenantID, customerID uuid.UUID, amount, balanceBefore decimal.Decimal) (*BalanceTransaction, error) {
	if balanceBefore.LessThan(amount) {
		return nil, shared.NewDomainError("INSUFFICIENT_CREDIT", "Insufficient credit for consumption")
	}
	return NewBalanceTransaction(
		tenantID,
		customerID,
		BalanceTransactionTypeConsume,
		amount,
		balanceBefore,
		balanceBefore.Sub(amount),
	)
}
