package catalog

import (
	"context"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository persists products
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by SKU within a tenant
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Save persists changes with an optimistic version check
	Save(ctx context.Context, product *Product) error

	// ListForTenant lists products for a tenant with filtering
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
}
