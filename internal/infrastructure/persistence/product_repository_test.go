package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/catalog"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
)

// newSQLiteDB gives each test an isolated in-memory database. Queries with
// postgres-only SQL (row locks, ILIKE) keep using sqlmock instead.
func newSQLiteDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create and find round trip", func(t *testing.T) {
		repo := NewGormProductRepository(newSQLiteDB(t, &catalog.Product{}))

		product, err := catalog.NewProduct(tenantID, "SKU-001", "Widget", decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, product))

		found, err := repo.FindBySKU(ctx, tenantID, "SKU-001")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
		assert.Equal(t, "Widget", found.Name)
	})

	t.Run("duplicate sku within tenant rejected", func(t *testing.T) {
		repo := NewGormProductRepository(newSQLiteDB(t, &catalog.Product{}))

		first, err := catalog.NewProduct(tenantID, "SKU-DUP", "First", decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, first))

		second, err := catalog.NewProduct(tenantID, "SKU-DUP", "Second", decimal.NewFromInt(2))
		require.NoError(t, err)
		err = repo.Create(ctx, second)
		assert.Equal(t, shared.ErrAlreadyExists.Code, shared.CodeOf(err))
	})

	t.Run("cross-tenant lookup misses", func(t *testing.T) {
		repo := NewGormProductRepository(newSQLiteDB(t, &catalog.Product{}))

		product, err := catalog.NewProduct(tenantID, "SKU-X", "Hidden", decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, product))

		_, err = repo.FindByIDForTenant(ctx, uuid.New(), product.ID)
		assert.Equal(t, shared.ErrNotFound.Code, shared.CodeOf(err))
	})

	t.Run("stale save is a concurrency conflict", func(t *testing.T) {
		repo := NewGormProductRepository(newSQLiteDB(t, &catalog.Product{}))

		product, err := catalog.NewProduct(tenantID, "SKU-V", "Versioned", decimal.NewFromInt(3))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, product))

		product.Name = "Renamed"
		product.IncrementVersion()
		require.NoError(t, repo.Save(ctx, product))

		// Replaying the same version transition finds no matching row
		err = repo.Save(ctx, product)
		assert.Equal(t, shared.ErrConcurrencyConflict.Code, shared.CodeOf(err))
	})
}

func TestGormMovementRepository(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	appendMovement := func(t *testing.T, repo *GormMovementRepository, kind inventory.MovementKind, qty, before, after int64) {
		t.Helper()
		delta := decimal.NewFromInt(qty)
		if kind == inventory.MovementOut {
			delta = delta.Neg()
		}
		m, err := inventory.NewMovement(
			tenantID, productID, locationID,
			kind,
			decimal.NewFromInt(qty), delta,
			decimal.NewFromInt(before), decimal.NewFromInt(after),
			uuid.New(), "",
		)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, m))
	}

	t.Run("replay sum matches appended deltas", func(t *testing.T) {
		repo := NewGormMovementRepository(newSQLiteDB(t, &inventory.Movement{}))

		appendMovement(t, repo, inventory.MovementIn, 10, 0, 10)
		appendMovement(t, repo, inventory.MovementOut, 4, 10, 6)
		appendMovement(t, repo, inventory.MovementIn, 1, 6, 7)

		sum, err := repo.SumDeltaByKey(ctx, tenantID, productID, locationID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(7)), "got %s", sum)
	})

	t.Run("history is ordered by occurrence", func(t *testing.T) {
		repo := NewGormMovementRepository(newSQLiteDB(t, &inventory.Movement{}))

		appendMovement(t, repo, inventory.MovementIn, 5, 0, 5)
		appendMovement(t, repo, inventory.MovementOut, 2, 5, 3)

		history, err := repo.ListByKey(ctx, tenantID, productID, locationID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, inventory.MovementIn, history[0].Kind)
		assert.Equal(t, inventory.MovementOut, history[1].Kind)
		assert.True(t, history[0].BalanceAfter.Equal(history[1].BalanceBefore))
	})

	t.Run("empty key sums to zero", func(t *testing.T) {
		repo := NewGormMovementRepository(newSQLiteDB(t, &inventory.Movement{}))

		sum, err := repo.SumDeltaByKey(ctx, tenantID, uuid.New(), locationID)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}
