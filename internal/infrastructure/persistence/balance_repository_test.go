package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
)

// newMockDB creates a gorm DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormBalanceRepository_FindByKey(t *testing.T) {
	t.Run("finds existing balance", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBalanceRepository(db)

		tenantID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()
		balanceID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "product_id", "location_id", "on_hand", "version"}).
			AddRow(balanceID, tenantID, productID, locationID, decimal.NewFromInt(42), 3)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE tenant_id = \$1 AND product_id = \$2 AND location_id = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, productID, locationID, 1).
			WillReturnRows(rows)

		balance, err := repo.FindByKey(context.Background(), tenantID, productID, locationID)

		require.NoError(t, err)
		assert.Equal(t, balanceID, balance.ID)
		assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(42)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBalanceRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances"`).
			WillReturnError(gorm.ErrRecordNotFound)

		balance, err := repo.FindByKey(context.Background(), uuid.New(), uuid.New(), uuid.New())

		assert.Nil(t, balance)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBalanceRepository_GetOrCreateForUpdate(t *testing.T) {
	t.Run("existing row is locked and returned", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBalanceRepository(db)

		tenantID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "product_id", "location_id", "on_hand", "version"}).
			AddRow(uuid.New(), tenantID, productID, locationID, decimal.NewFromInt(10), 1)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE .* FOR UPDATE`).
			WithArgs(tenantID, productID, locationID, 1).
			WillReturnRows(rows)

		balance, err := repo.GetOrCreateForUpdate(context.Background(), tenantID, productID, locationID)

		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(10)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBalanceRepository_Save(t *testing.T) {
	t.Run("stale version surfaces concurrency conflict", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBalanceRepository(db)

		balance, err := inventory.NewBalance(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		balance.IncrementVersion()

		mock.ExpectExec(`UPDATE "inventory_balances" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), balance)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
