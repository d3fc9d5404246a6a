package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
)

// GormMovementRepository implements inventory.MovementRepository using GORM.
// Movements are append-only: there is no update or delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append inserts a movement
func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.Movement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// ListByKey returns all movements for a (product, location) key in occurrence
// order. created_at breaks ties for movements sharing an occurrence instant.
func (r *GormMovementRepository) ListByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
		Order("occurred_at ASC, created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ListForTenant lists movements for a tenant with filtering
func (r *GormMovementRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Movement, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Movement{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "correlation_id":
			query = query.Where("correlation_id = ?", value)
		case "backordered":
			if value == true {
				query = query.Where("backordered = true")
			}
		}
	}

	var movements []inventory.Movement
	total, err := countThenList(query, filter, &movements)
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// SumDeltaByKey returns the signed sum of all movement deltas for a key
func (r *GormMovementRepository) SumDeltaByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Select("COALESCE(SUM(delta), 0) as total").
		Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
