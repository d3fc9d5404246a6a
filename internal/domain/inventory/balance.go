package inventory

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the cached on-hand quantity for a (product, location) key.
// It is a snapshot, not the source of truth: it must always equal the signed
// sum of all movements for the key. Created on the first movement, never
// deleted, only zeroed by further movements.
type Balance struct {
	shared.TenantAggregateRoot
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_key,priority:2"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_key,priority:3"`
	OnHand     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Balance) TableName() string {
	return "inventory_balances"
}

// NewBalance creates a zero balance for a product-location key
func NewBalance(tenantID, productID, locationID uuid.UUID) (*Balance, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &Balance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		OnHand:              decimal.Zero,
	}, nil
}

// ApplyResult captures the before/after chain of a single movement
type ApplyResult struct {
	Before      decimal.Decimal
	After       decimal.Decimal
	Delta       decimal.Decimal
	Backordered bool
}

// Apply moves the snapshot by the signed delta the kind encodes. quantity
// must be positive. An OUT that would drive the balance negative is rejected
// with ErrInsufficientStock unless allowBackorder is set, in which case the
// result is flagged.
func (b *Balance) Apply(kind MovementKind, quantity decimal.Decimal, allowBackorder bool) (*ApplyResult, error) {
	if !kind.IsValid() || kind == MovementAdjust {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_KIND", "Invalid movement kind for apply")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	delta := kind.SignedDelta(quantity)
	before := b.OnHand
	after := before.Add(delta)

	result := &ApplyResult{Before: before, After: after, Delta: delta}

	if kind.IsDecrease() && after.IsNegative() {
		if !allowBackorder {
			return nil, shared.ErrInsufficientStock
		}
		result.Backordered = true
	}

	b.OnHand = after
	b.UpdatedAt = time.Now().UTC()
	b.IncrementVersion()

	b.AddDomainEvent(NewMovementAppliedEvent(b, kind, quantity, before, after))

	return result, nil
}

// AdjustTo reconciles the snapshot to a counted quantity, returning the chain
// for the ADJUST movement. The counted quantity may not be negative.
func (b *Balance) AdjustTo(counted decimal.Decimal) (*ApplyResult, error) {
	if counted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	before := b.OnHand
	delta := counted.Sub(before)
	if delta.IsZero() {
		return nil, shared.NewDomainError("NO_CHANGE", "Counted quantity equals current balance")
	}

	b.OnHand = counted
	b.UpdatedAt = time.Now().UTC()
	b.IncrementVersion()

	b.AddDomainEvent(NewMovementAppliedEvent(b, MovementAdjust, delta.Abs(), before, counted))

	return &ApplyResult{Before: before, After: counted, Delta: delta}, nil
}

// Rebase snaps a drifted snapshot to the quantity the movement history
// implies. The drift event captures the snapshot value before the repair.
func (b *Balance) Rebase(replayed decimal.Decimal) {
	b.AddDomainEvent(NewLedgerDriftEvent(b, replayed))

	b.OnHand = replayed
	b.UpdatedAt = time.Now().UTC()
	b.IncrementVersion()
}

// Rebuild replays movements in occurrence order and returns the quantity the
// history implies. Movements must all belong to one (product, location) key.
func Rebuild(movements []Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Delta)
	}
	return total
}

// VerifyChain checks that the before/after chain of a key's movement history
// is gap-free: each movement's before-quantity equals the previous
// after-quantity, and after = before + delta throughout.
func VerifyChain(movements []Movement) error {
	prev := decimal.Zero
	for _, m := range movements {
		if !m.BalanceBefore.Equal(prev) {
			return shared.NewDomainError("LEDGER_CHAIN_GAP",
				"Movement "+m.ID.String()+" does not chain from the previous after-quantity")
		}
		if !m.BalanceAfter.Equal(m.BalanceBefore.Add(m.Delta)) {
			return shared.NewDomainError("LEDGER_CHAIN_BROKEN",
				"Movement "+m.ID.String()+" after-quantity does not equal before plus delta")
		}
		prev = m.BalanceAfter
	}
	return nil
}
