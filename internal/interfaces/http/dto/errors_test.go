package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizops/backend/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{shared.ErrNotFound.Code, http.StatusNotFound},
		{shared.ErrTenantMismatch.Code, http.StatusNotFound},
		{shared.ErrAlreadyExists.Code, http.StatusConflict},
		{shared.ErrConcurrencyConflict.Code, http.StatusConflict},
		{shared.ErrAuthorizationDenied.Code, http.StatusForbidden},
		{shared.ErrInvalidInput.Code, http.StatusBadRequest},
		{shared.ErrInvalidState.Code, http.StatusUnprocessableEntity},
		{shared.ErrInsufficientStock.Code, http.StatusUnprocessableEntity},
		{shared.ErrAllocationInvariant.Code, http.StatusInternalServerError},
		{shared.ErrLockTimeout.Code, http.StatusServiceUnavailable},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"SOME_BUSINESS_RULE", http.StatusUnprocessableEntity},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestListRequestToFilter(t *testing.T) {
	t.Run("defaults for zero request", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Equal(t, "created_at", filter.OrderBy)
		assert.Equal(t, "desc", filter.OrderDir)
	})

	t.Run("explicit values preserved", func(t *testing.T) {
		filter := ListRequest{Page: 3, PageSize: 50, OrderBy: "due_date", OrderDir: "asc"}.ToFilter()
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "due_date", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)
	})
}
