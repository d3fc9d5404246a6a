package catalog

import (
	"context"
	"testing"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/catalog"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memProductRepo is an in-memory ProductRepository
type memProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) Create(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) ListForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Product, int64, error) {
	result := make([]catalog.Product, 0)
	for _, p := range r.products {
		if p.TenantID == tenantID {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

type catalogFixture struct {
	productService *ProductService
	productRepo    *memProductRepo
	tenantID       uuid.UUID
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	productRepo := newMemProductRepo()
	return &catalogFixture{
		productService: NewProductService(NewNoOpTransactionScope(productRepo)),
		productRepo:    productRepo,
		tenantID:       uuid.New(),
	}
}

func (f *catalogFixture) owner() authz.Actor {
	return authz.Actor{ID: uuid.New(), TenantID: f.tenantID, Role: authz.RoleOwner, Active: true}
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an active product", func(t *testing.T) {
		f := newCatalogFixture(t)

		resp, err := f.productService.CreateProduct(ctx, f.owner(), CreateProductRequest{
			SKU:       "sku-001",
			Name:      "Widget",
			Unit:      "box",
			UnitPrice: decimal.NewFromInt(10),
		})
		require.NoError(t, err)

		assert.Equal(t, "SKU-001", resp.SKU)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "box", resp.Unit)

		stored := f.productRepo.products[resp.ID]
		require.NotNil(t, stored)
		require.NotNil(t, stored.CreatedBy)
	})

	t.Run("duplicate sku within tenant rejected", func(t *testing.T) {
		f := newCatalogFixture(t)
		actor := f.owner()

		_, err := f.productService.CreateProduct(ctx, actor, CreateProductRequest{SKU: "SKU-DUP", Name: "First"})
		require.NoError(t, err)

		_, err = f.productService.CreateProduct(ctx, actor, CreateProductRequest{SKU: "sku-dup", Name: "Second"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		f := newCatalogFixture(t)

		_, err := f.productService.CreateProduct(ctx, f.owner(), CreateProductRequest{
			SKU:       "SKU-NEG",
			Name:      "Bad",
			UnitPrice: decimal.NewFromInt(-1),
		})
		assert.Error(t, err)
	})

	t.Run("inactive actor is denied", func(t *testing.T) {
		f := newCatalogFixture(t)
		actor := f.owner()
		actor.Active = false

		_, err := f.productService.CreateProduct(ctx, actor, CreateProductRequest{SKU: "SKU-X", Name: "Denied"})
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})
}

func TestProductService_GetProduct(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	actor := f.owner()

	created, err := f.productService.CreateProduct(ctx, actor, CreateProductRequest{SKU: "SKU-1", Name: "Widget"})
	require.NoError(t, err)

	t.Run("returns the stored product", func(t *testing.T) {
		resp, err := f.productService.GetProduct(ctx, actor, uuid.Nil, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", resp.SKU)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := f.productService.GetProduct(ctx, actor, uuid.Nil, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other tenant's actor cannot see it", func(t *testing.T) {
		stranger := authz.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: authz.RoleOwner, Active: true}
		_, err := f.productService.GetProduct(ctx, stranger, uuid.Nil, created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
