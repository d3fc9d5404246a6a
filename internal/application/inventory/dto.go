package inventory

import (
	"time"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest records a single IN or OUT movement.
// TenantID is resolved by the transport layer, never from the request body.
type RecordMovementRequest struct {
	TenantID       uuid.UUID       `json:"-"`
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	LocationID     uuid.UUID       `json:"location_id" binding:"required"`
	Kind           string          `json:"kind" binding:"required,oneof=IN OUT"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Reference      string          `json:"reference" binding:"max=100"`
	Reason         string          `json:"reason" binding:"max=255"`
	AllowBackorder bool            `json:"allow_backorder"`
}

// TransferRequest moves stock between two locations of the same tenant
type TransferRequest struct {
	TenantID       uuid.UUID       `json:"-"`
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	FromLocationID uuid.UUID       `json:"from_location_id" binding:"required"`
	ToLocationID   uuid.UUID       `json:"to_location_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Reference      string          `json:"reference" binding:"max=100"`
	Reason         string          `json:"reason" binding:"max=255"`
}

// AdjustmentRequest reconciles a balance to a physically counted quantity
type AdjustmentRequest struct {
	TenantID        uuid.UUID       `json:"-"`
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	LocationID      uuid.UUID       `json:"location_id" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Reason          string          `json:"reason" binding:"required,max=255"`
}

// ReconcileRequest replays a key's movement history against its snapshot.
// With Repair set the snapshot is rebased onto the replayed quantity.
type ReconcileRequest struct {
	TenantID   uuid.UUID `json:"-"`
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	Repair     bool      `json:"repair"`
}

// MovementResponse is the API representation of a recorded movement
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	LocationID    uuid.UUID       `json:"location_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	Delta         decimal.Decimal `json:"delta"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	Backordered   bool            `json:"backordered"`
	Reference     string          `json:"reference,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ToMovementResponse converts a movement to its API representation
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		Kind:          m.Kind.String(),
		Quantity:      m.Quantity,
		Delta:         m.Delta,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		CorrelationID: m.CorrelationID,
		Backordered:   m.Backordered,
		Reference:     m.Reference,
		Reason:        m.Reason,
		OccurredAt:    m.OccurredAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// TransferResponse carries both legs of a committed transfer
type TransferResponse struct {
	CorrelationID uuid.UUID        `json:"correlation_id"`
	Outbound      MovementResponse `json:"outbound"`
	Inbound       MovementResponse `json:"inbound"`
}

// BalanceResponse is the API representation of a balance snapshot
type BalanceResponse struct {
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID uuid.UUID       `json:"location_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToBalanceResponse converts a balance to its API representation
func ToBalanceResponse(b *inventory.Balance) BalanceResponse {
	return BalanceResponse{
		ProductID:  b.ProductID,
		LocationID: b.LocationID,
		OnHand:     b.OnHand,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ReconcileResponse reports the outcome of a replay reconciliation
type ReconcileResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	Snapshot    decimal.Decimal `json:"snapshot"`
	Replayed    decimal.Decimal `json:"replayed"`
	Drift       decimal.Decimal `json:"drift"`
	ChainIntact bool            `json:"chain_intact"`
	Repaired    bool            `json:"repaired"`
}
