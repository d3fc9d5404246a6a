package partner

import (
	"context"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository persists customers
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate finds a customer row-locked for the enclosing
	// transaction, used when moving the standing credit balance.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByCode finds a customer by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Customer, error)

	// Create inserts a new customer
	Create(ctx context.Context, customer *Customer) error

	// Save persists changes with an optimistic version check
	Save(ctx context.Context, customer *Customer) error

	// ListForTenant lists customers for a tenant with filtering
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
}

// LocationRepository persists locations
type LocationRepository interface {
	// FindByIDForTenant finds a location by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindByCode finds a location by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Location, error)

	// Create inserts a new location
	Create(ctx context.Context, location *Location) error

	// Save persists changes with an optimistic version check
	Save(ctx context.Context, location *Location) error

	// ListForTenant lists locations for a tenant
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, int64, error)
}

// BalanceTransactionRepository persists the append-only customer credit ledger
type BalanceTransactionRepository interface {
	// Create inserts an immutable credit transaction
	Create(ctx context.Context, tx *BalanceTransaction) error

	// ListByCustomer returns a customer's credit transactions, newest first
	ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]BalanceTransaction, int64, error)
}
