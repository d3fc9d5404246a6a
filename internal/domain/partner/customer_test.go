package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid customer", func(t *testing.T) {
		c, err := NewCustomer(tenantID, "cust-001", "Acme Retail")
		require.NoError(t, err)

		assert.Equal(t, "CUST-001", c.Code)
		assert.Equal(t, CustomerStatusActive, c.Status)
		assert.True(t, c.CreditBalance.IsZero())
		assert.Equal(t, tenantID, c.TenantID)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		tests := []struct {
			name string
			code string
			cust string
		}{
			{"empty code", "", "Acme"},
			{"code with spaces", "CUST 1", "Acme"},
			{"empty name", "CUST-1", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewCustomer(tenantID, tt.code, tt.cust)
				assert.Error(t, err)
			})
		}
	})
}

func TestCustomer_Credit(t *testing.T) {
	newCustomer := func(t *testing.T) *Customer {
		c, err := NewCustomer(uuid.New(), "C1", "Acme")
		require.NoError(t, err)
		return c
	}

	t.Run("add and deduct", func(t *testing.T) {
		c := newCustomer(t)

		require.NoError(t, c.AddCredit(decimal.NewFromInt(500)))
		assert.True(t, c.CreditBalance.Equal(decimal.NewFromInt(500)))
		assert.True(t, c.HasCredit())

		require.NoError(t, c.DeductCredit(decimal.NewFromInt(200)))
		assert.True(t, c.CreditBalance.Equal(decimal.NewFromInt(300)))
	})

	t.Run("deduct beyond balance rejected", func(t *testing.T) {
		c := newCustomer(t)
		require.NoError(t, c.AddCredit(decimal.NewFromInt(100)))

		err := c.DeductCredit(decimal.NewFromInt(101))
		assert.Error(t, err)
		assert.True(t, c.CreditBalance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		c := newCustomer(t)
		assert.Error(t, c.AddCredit(decimal.Zero))
		assert.Error(t, c.DeductCredit(decimal.NewFromInt(-5)))
	})
}

func TestCustomer_StatusTransitions(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "C1", "Acme")
	require.NoError(t, err)

	require.NoError(t, c.Suspend())
	assert.Equal(t, CustomerStatusSuspended, c.Status)
	assert.Error(t, c.Suspend())

	require.NoError(t, c.Activate())
	assert.True(t, c.IsActive())

	require.NoError(t, c.Deactivate())
	assert.Equal(t, CustomerStatusInactive, c.Status)
}

func TestBalanceTransaction(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()

	t.Run("surplus transaction carries before and after", func(t *testing.T) {
		tx, err := CreateSurplusTransaction(tenantID, customerID, decimal.NewFromInt(50), decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.Equal(t, BalanceTransactionTypeSurplus, tx.TransactionType)
		assert.True(t, tx.BalanceBefore.Equal(decimal.NewFromInt(100)))
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(150)))
		assert.True(t, tx.BalanceChange().Equal(decimal.NewFromInt(50)))
	})

	t.Run("consume requires sufficient credit", func(t *testing.T) {
		_, err := CreateConsumeTransaction(tenantID, customerID, decimal.NewFromInt(200), decimal.NewFromInt(100))
		assert.Error(t, err)

		tx, err := CreateConsumeTransaction(tenantID, customerID, decimal.NewFromInt(80), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(20)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewBalanceTransaction(tenantID, customerID, BalanceTransactionTypeSurplus, decimal.Zero, decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestNewLocation(t *testing.T) {
	t.Run("valid location", func(t *testing.T) {
		l, err := NewLocation(uuid.New(), "wh-main", "Main Warehouse")
		require.NoError(t, err)

		assert.Equal(t, "WH-MAIN", l.Code)
		assert.True(t, l.IsActive())
		assert.False(t, l.IsDefault)
	})

	t.Run("rejects empty code or name", func(t *testing.T) {
		_, err := NewLocation(uuid.New(), "", "Main")
		assert.Error(t, err)

		_, err = NewLocation(uuid.New(), "WH1", "")
		assert.Error(t, err)
	})
}
