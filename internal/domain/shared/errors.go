package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// Authorization failures. TENANT_MISMATCH indicates a programming error
	// upstream and is never recovered from; AUTHORIZATION_DENIED is the
	// fail-closed default for every other rule.
	ErrAuthorizationDenied = NewDomainError("AUTHORIZATION_DENIED", "Not authorized to perform this action")
	ErrTenantMismatch      = NewDomainError("TENANT_MISMATCH", "Resource belongs to a different tenant")

	// Expected business condition, surfaced to the caller without retry.
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")

	// Invariant breach. Aborts the enclosing transaction, never clamped.
	ErrAllocationInvariant = NewDomainError("ALLOCATION_INVARIANT_VIOLATION", "Payment allocation exceeds an invariant bound")

	// Transient contention failures; the caller may retry the whole
	// operation, the core never retries on its own.
	ErrLockTimeout         = NewDomainError("LOCK_TIMEOUT", "Timed out waiting for a row lock")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)

// CodeOf returns the domain error code, or empty string for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsRetryable reports whether the error is a transient condition the caller
// may retry with backoff.
func IsRetryable(err error) bool {
	code := CodeOf(err)
	return code == ErrLockTimeout.Code || code == ErrConcurrencyConflict.Code
}
