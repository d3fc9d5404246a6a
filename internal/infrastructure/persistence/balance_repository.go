package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
)

// GormBalanceRepository implements inventory.BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindByKey finds the balance for a (product, location) key
func (r *GormBalanceRepository) FindByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*inventory.Balance, error) {
	var balance inventory.Balance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
		First(&balance).Error; err != nil {
		return nil, translateError(err)
	}
	return &balance, nil
}

// GetOrCreateForUpdate returns the balance row for the key under FOR UPDATE,
// creating a zero row first if none exists. ON CONFLICT DO NOTHING absorbs the
// race where two transactions create the same key concurrently; both then
// serialize on the row lock.
func (r *GormBalanceRepository) GetOrCreateForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*inventory.Balance, error) {
	balance, err := r.findByKeyForUpdate(ctx, tenantID, productID, locationID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := inventory.NewBalance(tenantID, productID, locationID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "product_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(fresh).Error; err != nil {
		return nil, translateError(err)
	}

	return r.findByKeyForUpdate(ctx, tenantID, productID, locationID)
}

func (r *GormBalanceRepository) findByKeyForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*inventory.Balance, error) {
	var balance inventory.Balance
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
		First(&balance).Error; err != nil {
		return nil, translateError(err)
	}
	return &balance, nil
}

// Save persists the snapshot with an optimistic version check
func (r *GormBalanceRepository) Save(ctx context.Context, balance *inventory.Balance) error {
	result := r.db.WithContext(ctx).
		Model(balance).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]any{
			"on_hand":    balance.OnHand,
			"version":    balance.Version,
			"updated_at": balance.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ListForTenant lists balances for a tenant with filtering
func (r *GormBalanceRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Balance, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Balance{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "negative":
			if value == true {
				query = query.Where("on_hand < 0")
			}
		}
	}

	var balances []inventory.Balance
	total, err := countThenList(query, filter, &balances)
	if err != nil {
		return nil, 0, err
	}
	return balances, total, nil
}

// Ensure GormBalanceRepository implements BalanceRepository
var _ inventory.BalanceRepository = (*GormBalanceRepository)(nil)
