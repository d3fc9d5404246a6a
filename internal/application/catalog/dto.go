package catalog

import (
	"time"

	"github.com/bizops/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest registers a sellable item. TenantID is resolved by the
// transport layer, never from the request body.
type CreateProductRequest struct {
	TenantID  uuid.UUID       `json:"-"`
	SKU       string          `json:"sku" binding:"required,max=100"`
	Name      string          `json:"name" binding:"required,max=200"`
	Unit      string          `json:"unit" binding:"omitempty,max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Status    string          `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Unit:      p.Unit,
		UnitPrice: p.UnitPrice,
		Status:    string(p.Status),
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(items []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(items))
	for i := range items {
		responses[i] = ToProductResponse(&items[i])
	}
	return responses
}
