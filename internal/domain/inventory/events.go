package inventory

import (
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory ledger
const (
	EventTypeMovementApplied = "inventory.movement_applied"
	EventTypeLedgerDrift     = "inventory.ledger_drift_detected"

	aggregateTypeBalance = "InventoryBalance"
)

// MovementAppliedEvent is emitted when a movement changes a balance snapshot
type MovementAppliedEvent struct {
	shared.BaseDomainEvent
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Kind       MovementKind    `json:"kind"`
	Quantity   decimal.Decimal `json:"quantity"`
	Before     decimal.Decimal `json:"before"`
	After      decimal.Decimal `json:"after"`
}

// NewMovementAppliedEvent creates a new MovementAppliedEvent
func NewMovementAppliedEvent(b *Balance, kind MovementKind, quantity, before, after decimal.Decimal) *MovementAppliedEvent {
	return &MovementAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementApplied, aggregateTypeBalance, b.ID, b.TenantID),
		ProductID:       b.ProductID.String(),
		LocationID:      b.LocationID.String(),
		Kind:            kind,
		Quantity:        quantity,
		Before:          before,
		After:           after,
	}
}

// LedgerDriftEvent is emitted when replay reconciliation finds a snapshot
// that disagrees with the movement history
type LedgerDriftEvent struct {
	shared.BaseDomainEvent
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Snapshot   decimal.Decimal `json:"snapshot"`
	Replayed   decimal.Decimal `json:"replayed"`
}

// NewLedgerDriftEvent creates a new LedgerDriftEvent
func NewLedgerDriftEvent(b *Balance, replayed decimal.Decimal) *LedgerDriftEvent {
	return &LedgerDriftEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerDrift, aggregateTypeBalance, b.ID, b.TenantID),
		ProductID:       b.ProductID.String(),
		LocationID:      b.LocationID.String(),
		Snapshot:        b.OnHand,
		Replayed:        replayed,
	}
}
