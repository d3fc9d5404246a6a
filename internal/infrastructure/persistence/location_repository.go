package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/shared"
)

// GormLocationRepository implements partner.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByIDForTenant finds a location by ID within a tenant
func (r *GormLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Location, error) {
	var location partner.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&location).Error; err != nil {
		return nil, translateError(err)
	}
	return &location, nil
}

// FindByCode finds a location by code within a tenant
func (r *GormLocationRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Location, error) {
	var location partner.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&location).Error; err != nil {
		return nil, translateError(err)
	}
	return &location, nil
}

// Create inserts a new location
func (r *GormLocationRepository) Create(ctx context.Context, location *partner.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Save persists changes with an optimistic version check
func (r *GormLocationRepository) Save(ctx context.Context, location *partner.Location) error {
	result := r.db.WithContext(ctx).
		Model(location).
		Where("id = ? AND version = ?", location.ID, location.Version-1).
		Updates(map[string]any{
			"name":       location.Name,
			"address":    location.Address,
			"status":     location.Status,
			"is_default": location.IsDefault,
			"deleted_at": location.DeletedAt,
			"version":    location.Version,
			"updated_at": location.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ListForTenant lists locations for a tenant
func (r *GormLocationRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Location, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Location{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_default":
			query = query.Where("is_default = ?", value)
		}
	}

	var locations []partner.Location
	total, err := countThenList(query, filter, &locations)
	if err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

// Ensure GormLocationRepository implements LocationRepository
var _ partner.LocationRepository = (*GormLocationRepository)(nil)
