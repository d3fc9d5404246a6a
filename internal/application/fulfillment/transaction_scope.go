package fulfillment

import (
	"context"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/receivables"
)

// TransactionScope provides transactional access to the repositories an
// order-fulfilled event touches. The outbound movements and the receivable
// commit in one transaction or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction
type TransactionalRepositories interface {
	// BalanceRepo returns the balance repository scoped to the current transaction
	BalanceRepo() inventory.BalanceRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
	// ReceivableRepo returns the receivable repository scoped to the current transaction
	ReceivableRepo() receivables.ReceivableRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	balanceRepo    inventory.BalanceRepository
	movementRepo   inventory.MovementRepository
	receivableRepo receivables.ReceivableRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
	receivableRepo receivables.ReceivableRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		balanceRepo:    balanceRepo,
		movementRepo:   movementRepo,
		receivableRepo: receivableRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BalanceRepo returns the balance repository.
func (s *NoOpTransactionScope) BalanceRepo() inventory.BalanceRepository {
	return s.balanceRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// ReceivableRepo returns the receivable repository.
func (s *NoOpTransactionScope) ReceivableRepo() receivables.ReceivableRepository {
	return s.receivableRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
