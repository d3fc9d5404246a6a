package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/receivables"
	"github.com/bizops/backend/internal/domain/shared"
)

func receivableRows(r *receivables.Receivable) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "order_id", "customer_id",
		"original_amount", "paid_amount", "write_off_amount",
		"due_date", "status", "version",
	}).AddRow(
		r.ID, r.TenantID, r.OrderID, r.CustomerID,
		r.OriginalAmount, r.PaidAmount, r.WriteOffAmount,
		r.DueDate, r.Status, r.Version,
	)
}

func TestGormReceivableRepository_FindByOrderID(t *testing.T) {
	t.Run("finds receivable for order", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReceivableRepository(db)

		tenantID := uuid.New()
		orderID := uuid.New()
		r, err := receivables.NewReceivable(tenantID, orderID, uuid.New(),
			decimal.NewFromInt(500000), time.Now().Add(30*24*time.Hour))
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT \* FROM "receivables" WHERE tenant_id = \$1 AND order_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, orderID, 1).
			WillReturnRows(receivableRows(r))

		found, err := repo.FindByOrderID(context.Background(), tenantID, orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, found.OrderID)
		assert.Equal(t, receivables.StatusOpen, found.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReceivableRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "receivables"`).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByOrderID(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, found)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormReceivableRepository_Create(t *testing.T) {
	t.Run("duplicate order surfaces ErrAlreadyExists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReceivableRepository(db)

		r, err := receivables.NewReceivable(uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(1000), time.Now().Add(24*time.Hour))
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "receivables"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err = repo.Create(context.Background(), r)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormReceivableRepository_FindPayableByCustomerForUpdate(t *testing.T) {
	t.Run("queries locked rows ordered by due date", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReceivableRepository(db)

		tenantID := uuid.New()
		customerID := uuid.New()
		r, err := receivables.NewReceivable(tenantID, uuid.New(), customerID,
			decimal.NewFromInt(1000), time.Now().Add(24*time.Hour))
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT \* FROM "receivables" WHERE .* ORDER BY due_date ASC, created_at ASC FOR UPDATE`).
			WillReturnRows(receivableRows(r))

		items, err := repo.FindPayableByCustomerForUpdate(context.Background(), tenantID, customerID)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, customerID, items[0].CustomerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceivableRepository_FindOverdueCandidatesForUpdate(t *testing.T) {
	t.Run("uses SKIP LOCKED with limit", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormReceivableRepository(db)

		r, err := receivables.NewReceivable(uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(1000), time.Now().Add(-48*time.Hour))
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT \* FROM "receivables" WHERE .* LIMIT .* FOR UPDATE SKIP LOCKED`).
			WillReturnRows(receivableRows(r))

		items, err := repo.FindOverdueCandidatesForUpdate(context.Background(), time.Now(), 100)

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
