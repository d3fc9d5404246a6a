package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/shared"
)

// GormBalanceTransactionRepository implements partner.BalanceTransactionRepository
// using GORM. The credit ledger is append-only.
type GormBalanceTransactionRepository struct {
	db *gorm.DB
}

// NewGormBalanceTransactionRepository creates a new GormBalanceTransactionRepository
func NewGormBalanceTransactionRepository(db *gorm.DB) *GormBalanceTransactionRepository {
	return &GormBalanceTransactionRepository{db: db}
}

// Create inserts an immutable credit transaction
func (r *GormBalanceTransactionRepository) Create(ctx context.Context, tx *partner.BalanceTransaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// ListByCustomer returns a customer's credit transactions, newest first
func (r *GormBalanceTransactionRepository) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]partner.BalanceTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.BalanceTransaction{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "source_id":
			query = query.Where("source_id = ?", value)
		}
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "transaction_date"
		filter.OrderDir = "desc"
	}

	var transactions []partner.BalanceTransaction
	total, err := countThenList(query, filter, &transactions)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// Ensure GormBalanceTransactionRepository implements BalanceTransactionRepository
var _ partner.BalanceTransactionRepository = (*GormBalanceTransactionRepository)(nil)
