package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/shared"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&customer).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// FindByIDForUpdate finds a customer row-locked for the enclosing transaction
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&customer).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// FindByCode finds a customer by code within a tenant
func (r *GormCustomerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&customer).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Save persists changes with an optimistic version check
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).
		Model(customer).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Updates(map[string]any{
			"name":           customer.Name,
			"status":         customer.Status,
			"contact_name":   customer.ContactName,
			"phone":          customer.Phone,
			"email":          customer.Email,
			"credit_balance": customer.CreditBalance,
			"notes":          customer.Notes,
			"deleted_at":     customer.DeletedAt,
			"version":        customer.Version,
			"updated_at":     customer.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ListForTenant lists customers for a tenant with filtering
func (r *GormCustomerRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Customer{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "code":
			query = query.Where("code = ?", value)
		case "name_like":
			query = query.Where("name ILIKE ?", "%"+value.(string)+"%")
		case "include_deleted":
			// deleted rows visible only when explicitly requested
		}
	}
	if filter.Filters["include_deleted"] != true {
		query = query.Where("deleted_at IS NULL")
	}

	var customers []partner.Customer
	total, err := countThenList(query, filter, &customers)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
