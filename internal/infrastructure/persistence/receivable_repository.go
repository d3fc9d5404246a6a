package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/bizops/backend/internal/domain/shared"
)

// payableStatuses are the statuses payment allocation may target
var payableStatuses = []receivables.Status{
	receivables.StatusOpen,
	receivables.StatusPartial,
	receivables.StatusOverdue,
}

// GormReceivableRepository implements receivables.ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindByIDForTenant finds a receivable by ID within a tenant
func (r *GormReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivables.Receivable, error) {
	var receivable receivables.Receivable
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&receivable).Error; err != nil {
		return nil, translateError(err)
	}
	return &receivable, nil
}

// FindByOrderID finds the receivable created for an order, if any
func (r *GormReceivableRepository) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*receivables.Receivable, error) {
	var receivable receivables.Receivable
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&receivable).Error; err != nil {
		return nil, translateError(err)
	}
	return &receivable, nil
}

// Create inserts a new receivable. The unique index on order_id surfaces a
// concurrent duplicate as shared.ErrAlreadyExists.
func (r *GormReceivableRepository) Create(ctx context.Context, receivable *receivables.Receivable) error {
	if err := r.db.WithContext(ctx).Create(receivable).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Save persists changes with an optimistic version check
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *receivables.Receivable) error {
	result := r.db.WithContext(ctx).
		Model(receivable).
		Where("id = ? AND version = ?", receivable.ID, receivable.Version-1).
		Updates(map[string]any{
			"paid_amount":      receivable.PaidAmount,
			"write_off_amount": receivable.WriteOffAmount,
			"write_off_reason": receivable.WriteOffReason,
			"status":           receivable.Status,
			"paid_at":          receivable.PaidAt,
			"written_off_at":   receivable.WrittenOffAt,
			"deleted_at":       receivable.DeletedAt,
			"version":          receivable.Version,
			"updated_at":       receivable.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindPayableByCustomerForUpdate returns the customer's payable receivables
// row-locked, oldest obligation first. The deterministic order doubles as the
// lock acquisition order, so concurrent payments for one customer serialize
// instead of deadlocking.
func (r *GormReceivableRepository) FindPayableByCustomerForUpdate(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivables.Receivable, error) {
	var items []receivables.Receivable
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND customer_id = ? AND status IN ? AND deleted_at IS NULL", tenantID, customerID, payableStatuses).
		Where("original_amount - paid_amount - write_off_amount > 0").
		Order("due_date ASC, created_at ASC").
		Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// FindOverdueCandidatesForUpdate returns open/partial receivables past due as
// of the given instant, row-locked for the sweep. SKIP LOCKED lets concurrent
// sweep runs partition the candidate set instead of blocking on each other.
func (r *GormReceivableRepository) FindOverdueCandidatesForUpdate(ctx context.Context, asOf time.Time, limit int) ([]receivables.Receivable, error) {
	var items []receivables.Receivable
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status IN ? AND due_date < ? AND deleted_at IS NULL",
			[]receivables.Status{receivables.StatusOpen, receivables.StatusPartial}, asOf).
		Where("original_amount - paid_amount - write_off_amount > 0").
		Order("due_date ASC, created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// ListForTenant lists receivables for a tenant with filtering
func (r *GormReceivableRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receivables.Receivable, int64, error) {
	query := r.db.WithContext(ctx).Model(&receivables.Receivable{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "due_before":
			query = query.Where("due_date < ?", value)
		case "open_balance":
			if value == true {
				query = query.Where("status IN ? AND original_amount - paid_amount - write_off_amount > 0", payableStatuses)
			}
		}
	}

	var items []receivables.Receivable
	total, err := countThenList(query, filter, &items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Ensure GormReceivableRepository implements ReceivableRepository
var _ receivables.ReceivableRepository = (*GormReceivableRepository)(nil)
