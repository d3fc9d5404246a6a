package receivables

import (
	"context"

	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/receivables"
)

// TransactionScope provides transactional access to receivables repositories.
// A payment walk touches receivables, allocations, and possibly the customer
// credit balance; all of it commits or rolls back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the receivables repositories
// within a transaction
type TransactionalRepositories interface {
	// ReceivableRepo returns the receivable repository scoped to the current transaction
	ReceivableRepo() receivables.ReceivableRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() receivables.PaymentRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() partner.CustomerRepository
	// BalanceTxRepo returns the customer credit ledger scoped to the current transaction
	BalanceTxRepo() partner.BalanceTransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	receivableRepo receivables.ReceivableRepository
	paymentRepo    receivables.PaymentRepository
	customerRepo   partner.CustomerRepository
	balanceTxRepo  partner.BalanceTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	receivableRepo receivables.ReceivableRepository,
	paymentRepo receivables.PaymentRepository,
	customerRepo partner.CustomerRepository,
	balanceTxRepo partner.BalanceTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		receivableRepo: receivableRepo,
		paymentRepo:    paymentRepo,
		customerRepo:   customerRepo,
		balanceTxRepo:  balanceTxRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ReceivableRepo returns the receivable repository.
func (s *NoOpTransactionScope) ReceivableRepo() receivables.ReceivableRepository {
	return s.receivableRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() receivables.PaymentRepository {
	return s.paymentRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

// BalanceTxRepo returns the customer credit ledger.
func (s *NoOpTransactionScope) BalanceTxRepo() partner.BalanceTransactionRepository {
	return s.balanceTxRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
