package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/receivables"
)

// GormPaymentRepository implements receivables.PaymentRepository using GORM.
// Payments and allocations are immutable once written.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// CreatePayment inserts an immutable payment record
func (r *GormPaymentRepository) CreatePayment(ctx context.Context, payment *receivables.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// CreateAllocations inserts the allocations produced by one payment walk
func (r *GormPaymentRepository) CreateAllocations(ctx context.Context, allocations []receivables.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&allocations).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// FindPaymentByIDForTenant finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindPaymentByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivables.Payment, error) {
	var payment receivables.Payment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&payment).Error; err != nil {
		return nil, translateError(err)
	}
	return &payment, nil
}

// ListAllocationsByPayment returns all allocations for a payment
func (r *GormPaymentRepository) ListAllocationsByPayment(ctx context.Context, tenantID, paymentID uuid.UUID) ([]receivables.Allocation, error) {
	var allocations []receivables.Allocation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_id = ?", tenantID, paymentID).
		Order("created_at ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// ListAllocationsByReceivable returns all allocations against a receivable
func (r *GormPaymentRepository) ListAllocationsByReceivable(ctx context.Context, tenantID, receivableID uuid.UUID) ([]receivables.Allocation, error) {
	var allocations []receivables.Allocation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND receivable_id = ?", tenantID, receivableID).
		Order("created_at ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ receivables.PaymentRepository = (*GormPaymentRepository)(nil)
