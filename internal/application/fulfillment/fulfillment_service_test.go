package fulfillment

import (
	"context"
	"testing"
	"time"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type balanceKey struct {
	tenantID   uuid.UUID
	productID  uuid.UUID
	locationID uuid.UUID
}

type memBalanceRepo struct {
	balances map[balanceKey]*inventory.Balance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{balances: make(map[balanceKey]*inventory.Balance)}
}

func (r *memBalanceRepo) FindByKey(_ context.Context, tenantID, productID, locationID uuid.UUID) (*inventory.Balance, error) {
	b, ok := r.balances[balanceKey{tenantID, productID, locationID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *memBalanceRepo) GetOrCreateForUpdate(_ context.Context, tenantID, productID, locationID uuid.UUID) (*inventory.Balance, error) {
	key := balanceKey{tenantID, productID, locationID}
	if b, ok := r.balances[key]; ok {
		return b, nil
	}
	b, err := inventory.NewBalance(tenantID, productID, locationID)
	if err != nil {
		return nil, err
	}
	r.balances[key] = b
	return b, nil
}

func (r *memBalanceRepo) Save(_ context.Context, balance *inventory.Balance) error {
	r.balances[balanceKey{balance.TenantID, balance.ProductID, balance.LocationID}] = balance
	return nil
}

func (r *memBalanceRepo) ListForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.Balance, int64, error) {
	result := make([]inventory.Balance, 0)
	for _, b := range r.balances {
		if b.TenantID == tenantID {
			result = append(result, *b)
		}
	}
	return result, int64(len(result)), nil
}

type memMovementRepo struct {
	movements []inventory.Movement
}

func (r *memMovementRepo) Append(_ context.Context, movement *inventory.Movement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) ListByKey(_ context.Context, tenantID, productID, locationID uuid.UUID) ([]inventory.Movement, error) {
	result := make([]inventory.Movement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ProductID == productID && m.LocationID == locationID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *memMovementRepo) ListForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.Movement, int64, error) {
	result := make([]inventory.Movement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

func (r *memMovementRepo) SumDeltaByKey(ctx context.Context, tenantID, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	movements, _ := r.ListByKey(ctx, tenantID, productID, locationID)
	return inventory.Rebuild(movements), nil
}

type memReceivableRepo struct {
	receivables map[uuid.UUID]*receivables.Receivable
	byOrder     map[uuid.UUID]uuid.UUID
}

func newMemReceivableRepo() *memReceivableRepo {
	return &memReceivableRepo{
		receivables: make(map[uuid.UUID]*receivables.Receivable),
		byOrder:     make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *memReceivableRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*receivables.Receivable, error) {
	rec, ok := r.receivables[id]
	if !ok || rec.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

func (r *memReceivableRepo) FindByOrderID(_ context.Context, tenantID, orderID uuid.UUID) (*receivables.Receivable, error) {
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	rec := r.receivables[id]
	if rec.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

func (r *memReceivableRepo) Create(_ context.Context, rec *receivables.Receivable) error {
	if _, exists := r.byOrder[rec.OrderID]; exists {
		return shared.ErrAlreadyExists
	}
	r.receivables[rec.ID] = rec
	r.byOrder[rec.OrderID] = rec.ID
	return nil
}

func (r *memReceivableRepo) Save(_ context.Context, rec *receivables.Receivable) error {
	r.receivables[rec.ID] = rec
	return nil
}

func (r *memReceivableRepo) FindPayableByCustomerForUpdate(_ context.Context, _, _ uuid.UUID) ([]receivables.Receivable, error) {
	return nil, nil
}

func (r *memReceivableRepo) FindOverdueCandidatesForUpdate(_ context.Context, _ time.Time, _ int) ([]receivables.Receivable, error) {
	return nil, nil
}

func (r *memReceivableRepo) ListForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]receivables.Receivable, int64, error) {
	result := make([]receivables.Receivable, 0)
	for _, rec := range r.receivables {
		if rec.TenantID == tenantID {
			result = append(result, *rec)
		}
	}
	return result, int64(len(result)), nil
}

type memIdempotencyStore struct {
	processed map[string]bool
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{processed: make(map[string]bool)}
}

func (s *memIdempotencyStore) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	if s.processed[eventID] {
		return false, nil
	}
	s.processed[eventID] = true
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	return s.processed[eventID], nil
}

func (s *memIdempotencyStore) Close() error { return nil }

type fulfillmentFixture struct {
	service        *FulfillmentService
	balanceRepo    *memBalanceRepo
	movementRepo   *memMovementRepo
	receivableRepo *memReceivableRepo
	store          *memIdempotencyStore
	tenantID       uuid.UUID
	locationID     uuid.UUID
	customerID     uuid.UUID
}

func newFulfillmentFixture() *fulfillmentFixture {
	balanceRepo := newMemBalanceRepo()
	movementRepo := &memMovementRepo{}
	receivableRepo := newMemReceivableRepo()
	store := newMemIdempotencyStore()

	scope := NewNoOpTransactionScope(balanceRepo, movementRepo, receivableRepo)
	service := NewFulfillmentService(scope, store, shared.DefaultIdempotencyConfig())

	return &fulfillmentFixture{
		service:        service,
		balanceRepo:    balanceRepo,
		movementRepo:   movementRepo,
		receivableRepo: receivableRepo,
		store:          store,
		tenantID:       uuid.New(),
		locationID:     uuid.New(),
		customerID:     uuid.New(),
	}
}

func (f *fulfillmentFixture) owner() authz.Actor {
	return authz.Actor{ID: uuid.New(), TenantID: f.tenantID, Role: authz.RoleOwner, Active: true}
}

func (f *fulfillmentFixture) stock(t *testing.T, productID uuid.UUID, quantity int64) {
	t.Helper()
	ctx := context.Background()
	balance, err := f.balanceRepo.GetOrCreateForUpdate(ctx, f.tenantID, productID, f.locationID)
	require.NoError(t, err)
	result, err := balance.Apply(inventory.MovementIn, decimal.NewFromInt(quantity), false)
	require.NoError(t, err)
	movement, err := inventory.NewMovement(
		f.tenantID, productID, f.locationID,
		inventory.MovementIn, decimal.NewFromInt(quantity), result.Delta, result.Before, result.After,
		uuid.New(), "seed",
	)
	require.NoError(t, err)
	require.NoError(t, f.movementRepo.Append(ctx, movement))
}

func TestFulfillmentService_HandleOrderFulfilled(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts each line and opens the receivable", func(t *testing.T) {
		f := newFulfillmentFixture()
		productA, productB := uuid.New(), uuid.New()
		f.stock(t, productA, 10)
		f.stock(t, productB, 10)

		resp, err := f.service.HandleOrderFulfilled(ctx, f.owner(), OrderFulfilledRequest{
			OrderID:    uuid.New(),
			CustomerID: f.customerID,
			LocationID: f.locationID,
			DueDate:    time.Now().AddDate(0, 0, 30),
			Lines: []OrderLine{
				{ProductID: productA, Quantity: decimal.NewFromInt(3), LineTotal: decimal.NewFromInt(3000)},
				{ProductID: productB, Quantity: decimal.NewFromInt(2), LineTotal: decimal.NewFromInt(5000)},
			},
		})
		require.NoError(t, err)

		assert.False(t, resp.Duplicate)
		assert.Len(t, resp.MovementIDs, 2)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(8000)))

		balanceA, err := f.balanceRepo.FindByKey(ctx, f.tenantID, productA, f.locationID)
		require.NoError(t, err)
		assert.True(t, balanceA.OnHand.Equal(decimal.NewFromInt(7)))

		receivable := f.receivableRepo.receivables[resp.ReceivableID]
		require.NotNil(t, receivable)
		assert.Equal(t, receivables.StatusOpen, receivable.Status)
		assert.True(t, receivable.OriginalAmount.Equal(decimal.NewFromInt(8000)))
	})

	t.Run("replayed event moves no stock and returns the same receivable", func(t *testing.T) {
		f := newFulfillmentFixture()
		productID := uuid.New()
		f.stock(t, productID, 10)
		req := OrderFulfilledRequest{
			OrderID:    uuid.New(),
			CustomerID: f.customerID,
			LocationID: f.locationID,
			DueDate:    time.Now().AddDate(0, 0, 30),
			Lines: []OrderLine{
				{ProductID: productID, Quantity: decimal.NewFromInt(4), LineTotal: decimal.NewFromInt(4000)},
			},
		}

		first, err := f.service.HandleOrderFulfilled(ctx, f.owner(), req)
		require.NoError(t, err)

		second, err := f.service.HandleOrderFulfilled(ctx, f.owner(), req)
		require.NoError(t, err)

		assert.True(t, second.Duplicate)
		assert.Equal(t, first.ReceivableID, second.ReceivableID)

		balance, err := f.balanceRepo.FindByKey(ctx, f.tenantID, productID, f.locationID)
		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(6))) // deducted once

		assert.Len(t, f.receivableRepo.receivables, 1)
	})

	t.Run("replay is caught even without the idempotency store", func(t *testing.T) {
		f := newFulfillmentFixture()
		f.service = NewFulfillmentService(
			NewNoOpTransactionScope(f.balanceRepo, f.movementRepo, f.receivableRepo),
			nil, shared.IdempotencyConfig{Enabled: false},
		)
		productID := uuid.New()
		f.stock(t, productID, 10)
		req := OrderFulfilledRequest{
			OrderID:    uuid.New(),
			CustomerID: f.customerID,
			LocationID: f.locationID,
			DueDate:    time.Now().AddDate(0, 0, 30),
			Lines: []OrderLine{
				{ProductID: productID, Quantity: decimal.NewFromInt(4), LineTotal: decimal.NewFromInt(4000)},
			},
		}

		_, err := f.service.HandleOrderFulfilled(ctx, f.owner(), req)
		require.NoError(t, err)

		second, err := f.service.HandleOrderFulfilled(ctx, f.owner(), req)
		require.NoError(t, err)
		assert.True(t, second.Duplicate)

		balance, err := f.balanceRepo.FindByKey(ctx, f.tenantID, productID, f.locationID)
		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(6)))
	})

	t.Run("insufficient stock fails the whole event", func(t *testing.T) {
		f := newFulfillmentFixture()
		productA, productB := uuid.New(), uuid.New()
		f.stock(t, productA, 10)
		f.stock(t, productB, 1)

		_, err := f.service.HandleOrderFulfilled(ctx, f.owner(), OrderFulfilledRequest{
			OrderID:    uuid.New(),
			CustomerID: f.customerID,
			LocationID: f.locationID,
			DueDate:    time.Now().AddDate(0, 0, 30),
			Lines: []OrderLine{
				{ProductID: productA, Quantity: decimal.NewFromInt(3), LineTotal: decimal.NewFromInt(3000)},
				{ProductID: productB, Quantity: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(5000)},
			},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		assert.Empty(t, f.receivableRepo.receivables)
	})

	t.Run("backorder policy lets fulfillment go negative", func(t *testing.T) {
		f := newFulfillmentFixture()
		f.service.SetBackorderDefault(true)
		productID := uuid.New()
		f.stock(t, productID, 1)

		resp, err := f.service.HandleOrderFulfilled(ctx, f.owner(), OrderFulfilledRequest{
			OrderID:    uuid.New(),
			CustomerID: f.customerID,
			LocationID: f.locationID,
			DueDate:    time.Now().AddDate(0, 0, 30),
			Lines: []OrderLine{
				{ProductID: productID, Quantity: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(5000)},
			},
		})
		require.NoError(t, err)
		assert.Len(t, resp.MovementIDs, 1)

		balance, err := f.balanceRepo.FindByKey(ctx, f.tenantID, productID, f.locationID)
		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(-4)))
	})

	t.Run("cross-tenant event is a tenant mismatch", func(t *testing.T) {
		f := newFulfillmentFixture()

		_, err := f.service.HandleOrderFulfilled(ctx, f.owner(), OrderFulfilledRequest{
			TenantID:   uuid.New(),
			OrderID:    uuid.New(),
			CustomerID: f.customerID,
			LocationID: f.locationID,
			DueDate:    time.Now().AddDate(0, 0, 30),
			Lines: []OrderLine{
				{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1), LineTotal: decimal.NewFromInt(1)},
			},
		})
		assert.ErrorIs(t, err, shared.ErrTenantMismatch)
	})
}
