package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/interfaces/http/dto"
)

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &BaseHandler{}
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestBaseHandler_HandleError(t *testing.T) {
	t.Run("domain error maps to its status and code", func(t *testing.T) {
		w, body := performError(t, shared.ErrInsufficientStock)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, "INSUFFICIENT_STOCK", body.Error.Code)
		assert.False(t, body.Success)
	})

	t.Run("retryable errors are flagged", func(t *testing.T) {
		w, body := performError(t, shared.ErrLockTimeout)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.NotNil(t, body.Error)
		assert.True(t, body.Error.Retryable)
	})

	t.Run("tenant mismatch presents as not found", func(t *testing.T) {
		w, body := performError(t, shared.ErrTenantMismatch)

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, body.Error)
	})

	t.Run("unknown error is an opaque 500", func(t *testing.T) {
		w, body := performError(t, errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrCodeInternal, body.Error.Code)
		assert.NotContains(t, body.Error.Message, "pq:")
	})
}
