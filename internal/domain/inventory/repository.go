package inventory

import (
	"context"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceRepository persists balance snapshots
type BalanceRepository interface {
	// FindByKey finds the balance for a (product, location) key
	FindByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*Balance, error)

	// GetOrCreateForUpdate returns the balance row for the key under an
	// exclusive row lock, creating a zero row first if none exists. The lock
	// is held until the enclosing transaction ends. A bounded lock wait that
	// expires surfaces shared.ErrLockTimeout.
	GetOrCreateForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*Balance, error)

	// Save persists the snapshot with an optimistic version check
	Save(ctx context.Context, balance *Balance) error

	// ListForTenant lists balances for a tenant with filtering
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Balance, int64, error)
}

// MovementRepository persists the append-only movement history
type MovementRepository interface {
	// Append inserts a movement. Movements are never updated or deleted.
	Append(ctx context.Context, movement *Movement) error

	// ListByKey returns all movements for a (product, location) key in
	// occurrence order (oldest first)
	ListByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID) ([]Movement, error)

	// ListForTenant lists movements for a tenant with filtering (audit trail)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Movement, int64, error)

	// SumDeltaByKey returns the signed sum of all movement deltas for a key
	SumDeltaByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID) (decimal.Decimal, error)
}
