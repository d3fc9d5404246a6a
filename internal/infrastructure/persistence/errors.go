package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/shared"
)

// Postgres error codes the repositories care about
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

// translateError maps driver-level errors to the domain error taxonomy.
// Errors with no mapping pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.ErrAlreadyExists
		case pgLockNotAvailable:
			return shared.ErrLockTimeout
		}
	}
	return err
}
