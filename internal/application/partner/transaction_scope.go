package partner

import (
	"context"

	"github.com/bizops/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to partner repositories.
// Master-data writes are single-aggregate, but the scope keeps them on the
// same transaction idiom as the ledger and receivables services.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the partner repositories
// within a transaction
type TransactionalRepositories interface {
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() partner.CustomerRepository
	// LocationRepo returns the location repository scoped to the current transaction
	LocationRepo() partner.LocationRepository
	// BalanceTxRepo returns the customer credit ledger scoped to the current transaction
	BalanceTxRepo() partner.BalanceTransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	customerRepo  partner.CustomerRepository
	locationRepo  partner.LocationRepository
	balanceTxRepo partner.BalanceTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	customerRepo partner.CustomerRepository,
	locationRepo partner.LocationRepository,
	balanceTxRepo partner.BalanceTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customerRepo:  customerRepo,
		locationRepo:  locationRepo,
		balanceTxRepo: balanceTxRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

// LocationRepo returns the location repository.
func (s *NoOpTransactionScope) LocationRepo() partner.LocationRepository {
	return s.locationRepo
}

// BalanceTxRepo returns the customer credit ledger.
func (s *NoOpTransactionScope) BalanceTxRepo() partner.BalanceTransactionRepository {
	return s.balanceTxRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
