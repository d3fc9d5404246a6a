package dto

import (
	"net/http"
	"strings"

	"github.com/bizops/backend/internal/domain/shared"
)

// Transport-level error codes. Domain error codes pass through unchanged;
// these cover failures that never reach the domain.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeValidation   = "VALIDATION_FAILED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes.
// TENANT_MISMATCH deliberately presents as 404: a cross-tenant probe must
// learn nothing about whether the resource exists.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,

	shared.ErrNotFound.Code:       http.StatusNotFound,
	shared.ErrTenantMismatch.Code: http.StatusNotFound,

	shared.ErrAlreadyExists.Code:       http.StatusConflict,
	shared.ErrConcurrencyConflict.Code: http.StatusConflict,

	shared.ErrAuthorizationDenied.Code: http.StatusForbidden,

	shared.ErrInvalidInput.Code: http.StatusBadRequest,

	shared.ErrInvalidState.Code:      http.StatusUnprocessableEntity,
	shared.ErrInsufficientStock.Code: http.StatusUnprocessableEntity,

	// Invariant breaches indicate a bug, not a caller mistake
	shared.ErrAllocationInvariant.Code: http.StatusInternalServerError,

	shared.ErrLockTimeout.Code: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code. Unmapped
// INVALID_* validation codes from the domain map to 400; anything else
// unknown is a 422 business rejection.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if code == "" {
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}
