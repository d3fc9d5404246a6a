package inventory

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind represents the kind of stock movement
type MovementKind string

const (
	// MovementIn represents stock entering a location (receiving, returns)
	MovementIn MovementKind = "IN"
	// MovementOut represents stock leaving a location (shipment, consumption)
	MovementOut MovementKind = "OUT"
	// MovementTransferOut is the source leg of a transfer between locations
	MovementTransferOut MovementKind = "TRANSFER_OUT"
	// MovementTransferIn is the destination leg of a transfer between locations
	MovementTransferIn MovementKind = "TRANSFER_IN"
	// MovementAdjust reconciles the balance to a counted quantity
	MovementAdjust MovementKind = "ADJUST"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is valid
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementIn, MovementOut, MovementTransferOut, MovementTransferIn, MovementAdjust:
		return true
	}
	return false
}

// IsIncrease returns true if this kind increases the on-hand quantity
func (k MovementKind) IsIncrease() bool {
	return k == MovementIn || k == MovementTransferIn
}

// IsDecrease returns true if this kind decreases the on-hand quantity
func (k MovementKind) IsDecrease() bool {
	return k == MovementOut || k == MovementTransferOut
}

// SignedDelta converts a positive input quantity into the signed delta the
// kind encodes. ADJUST deltas are computed against the counted quantity and
// never pass through here.
func (k MovementKind) SignedDelta(quantity decimal.Decimal) decimal.Decimal {
	if k.IsDecrease() {
		return quantity.Neg()
	}
	return quantity
}

// Movement is an immutable, append-only record of a stock movement.
// Corrections are made with new movements, never by editing history.
type Movement struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_key,priority:1"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_key,priority:2"`
	LocationID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_key,priority:3"`
	Kind          MovementKind    `gorm:"type:varchar(20);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // always positive magnitude
	Delta         decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed change applied to the balance
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CorrelationID uuid.UUID       `gorm:"type:uuid;not null;index"` // links the two legs of a transfer
	Backordered   bool            `gorm:"not null;default:false"`   // OUT allowed to drive the balance negative
	Reference     string          `gorm:"type:varchar(100);index"`  // e.g. order id
	Reason        string          `gorm:"type:varchar(255)"`
	OccurredAt    time.Time       `gorm:"type:timestamptz;not null;index:idx_movement_key,priority:4"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "inventory_movements"
}

// NewMovement creates a movement record with the before/after chain captured.
// quantity is the positive magnitude; delta carries the sign.
func NewMovement(
	tenantID, productID, locationID uuid.UUID,
	kind MovementKind,
	quantity, delta, balanceBefore, balanceAfter decimal.Decimal,
	correlationID uuid.UUID,
	reference string,
) (*Movement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_KIND", "Invalid movement kind")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !balanceAfter.Equal(balanceBefore.Add(delta)) {
		return nil, shared.NewDomainError("INVALID_BALANCE_CHAIN", "After-quantity must equal before-quantity plus delta")
	}
	if correlationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CORRELATION", "Correlation ID cannot be empty")
	}

	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          kind,
		Quantity:      quantity,
		Delta:         delta,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		CorrelationID: correlationID,
		Reference:     reference,
		OccurredAt:    time.Now().UTC(),
	}, nil
}

// WithReason sets the reason for the movement
func (m *Movement) WithReason(reason string) *Movement {
	m.Reason = reason
	return m
}

// WithBackordered flags the movement as an authorized negative-balance override
func (m *Movement) WithBackordered() *Movement {
	m.Backordered = true
	return m
}
