package catalog

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/catalog"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductService manages the product master data the inventory ledger keys
// movements and balances on.
type ProductService struct {
	scope TransactionScope
	guard *authz.Guard
}

// NewProductService creates a new ProductService
func NewProductService(scope TransactionScope) *ProductService {
	return &ProductService{
		scope: scope,
		guard: authz.NewGuard(),
	}
}

func (s *ProductService) targetTenant(actor authz.Actor, requested uuid.UUID) uuid.UUID {
	if requested != uuid.Nil {
		return requested
	}
	return actor.TenantID
}

// CreateProduct registers a product. The SKU is unique per tenant.
func (s *ProductService) CreateProduct(ctx context.Context, actor authz.Actor, req CreateProductRequest) (*ProductResponse, error) {
	tenantID := s.targetTenant(actor, req.TenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionCreate); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if req.Unit != "" {
		if err := product.SetUnit(req.Unit); err != nil {
			return nil, err
		}
	}
	product.Notes = req.Notes
	product.CreatedBy = &actor.ID

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		_, err := repos.ProductRepo().FindBySKU(ctx, tenantID, product.SKU)
		if err == nil {
			return shared.ErrAlreadyExists
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return repos.ProductRepo().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, actor authz.Actor, tenantID, id uuid.UUID) (*ProductResponse, error) {
	tenantID = s.targetTenant(actor, tenantID)

	var response *ProductResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		resource := authz.Resource{TenantID: product.TenantID, CreatedBy: product.CreatedBy, DeletedAt: product.DeletedAt}
		if err := s.guard.Authorize(actor, resource, authz.ActionRead); err != nil {
			return err
		}

		resp := ToProductResponse(product)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListProducts lists products for a tenant with filtering
func (s *ProductService) ListProducts(ctx context.Context, actor authz.Actor, tenantID uuid.UUID, filter shared.Filter) ([]ProductResponse, int64, error) {
	tenantID = s.targetTenant(actor, tenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionRead); err != nil {
		return nil, 0, err
	}

	var (
		items []catalog.Product
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, total, err = repos.ProductRepo().ListForTenant(ctx, tenantID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(items), total, nil
}
