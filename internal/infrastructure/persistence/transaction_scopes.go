package persistence

import (
	"context"

	"gorm.io/gorm"

	appcatalog "github.com/bizops/backend/internal/application/catalog"
	appfulfillment "github.com/bizops/backend/internal/application/fulfillment"
	appinventory "github.com/bizops/backend/internal/application/inventory"
	apppartner "github.com/bizops/backend/internal/application/partner"
	appreceivables "github.com/bizops/backend/internal/application/receivables"
	"github.com/bizops/backend/internal/domain/catalog"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/receivables"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

// BalanceRepo returns the balance repository scoped to the current transaction
func (r *gormInventoryRepositories) BalanceRepo() inventory.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormInventoryRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// GormReceivablesTransactionScope implements the receivables TransactionScope
// using GORM transactions
type GormReceivablesTransactionScope struct {
	db *gorm.DB
}

// NewGormReceivablesTransactionScope creates a new GormReceivablesTransactionScope
func NewGormReceivablesTransactionScope(db *gorm.DB) *GormReceivablesTransactionScope {
	return &GormReceivablesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormReceivablesTransactionScope) Execute(ctx context.Context, fn func(repos appreceivables.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormReceivablesRepositories{tx: tx})
	})
}

type gormReceivablesRepositories struct {
	tx *gorm.DB
}

// ReceivableRepo returns the receivable repository scoped to the current transaction
func (r *gormReceivablesRepositories) ReceivableRepo() receivables.ReceivableRepository {
	return NewGormReceivableRepository(r.tx)
}

// PaymentRepo returns the payment repository scoped to the current transaction
func (r *gormReceivablesRepositories) PaymentRepo() receivables.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormReceivablesRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// BalanceTxRepo returns the credit ledger repository scoped to the current transaction
func (r *gormReceivablesRepositories) BalanceTxRepo() partner.BalanceTransactionRepository {
	return NewGormBalanceTransactionRepository(r.tx)
}

// GormFulfillmentTransactionScope implements the fulfillment TransactionScope
// using GORM transactions. It spans both the inventory and receivables
// repositories so one order-fulfilled event commits atomically.
type GormFulfillmentTransactionScope struct {
	db *gorm.DB
}

// NewGormFulfillmentTransactionScope creates a new GormFulfillmentTransactionScope
func NewGormFulfillmentTransactionScope(db *gorm.DB) *GormFulfillmentTransactionScope {
	return &GormFulfillmentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormFulfillmentTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormFulfillmentRepositories{tx: tx})
	})
}

type gormFulfillmentRepositories struct {
	tx *gorm.DB
}

// BalanceRepo returns the balance repository scoped to the current transaction
func (r *gormFulfillmentRepositories) BalanceRepo() inventory.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormFulfillmentRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// ReceivableRepo returns the receivable repository scoped to the current transaction
func (r *gormFulfillmentRepositories) ReceivableRepo() receivables.ReceivableRepository {
	return NewGormReceivableRepository(r.tx)
}

// GormPartnerTransactionScope implements the partner TransactionScope using
// GORM transactions
type GormPartnerTransactionScope struct {
	db *gorm.DB
}

// NewGormPartnerTransactionScope creates a new GormPartnerTransactionScope
func NewGormPartnerTransactionScope(db *gorm.DB) *GormPartnerTransactionScope {
	return &GormPartnerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPartnerTransactionScope) Execute(ctx context.Context, fn func(repos apppartner.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPartnerRepositories{tx: tx})
	})
}

type gormPartnerRepositories struct {
	tx *gorm.DB
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormPartnerRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// LocationRepo returns the location repository scoped to the current transaction
func (r *gormPartnerRepositories) LocationRepo() partner.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// BalanceTxRepo returns the credit ledger repository scoped to the current transaction
func (r *gormPartnerRepositories) BalanceTxRepo() partner.BalanceTransactionRepository {
	return NewGormBalanceTransactionRepository(r.tx)
}

// GormCatalogTransactionScope implements the catalog TransactionScope using
// GORM transactions
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCatalogRepositories{tx: tx})
	})
}

type gormCatalogRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormCatalogRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Interface assertions
var (
	_ appinventory.TransactionScope            = (*GormInventoryTransactionScope)(nil)
	_ appinventory.TransactionalRepositories   = (*gormInventoryRepositories)(nil)
	_ appreceivables.TransactionScope          = (*GormReceivablesTransactionScope)(nil)
	_ appreceivables.TransactionalRepositories = (*gormReceivablesRepositories)(nil)
	_ appfulfillment.TransactionScope          = (*GormFulfillmentTransactionScope)(nil)
	_ appfulfillment.TransactionalRepositories = (*gormFulfillmentRepositories)(nil)
	_ apppartner.TransactionScope              = (*GormPartnerTransactionScope)(nil)
	_ apppartner.TransactionalRepositories     = (*gormPartnerRepositories)(nil)
	_ appcatalog.TransactionScope              = (*GormCatalogTransactionScope)(nil)
	_ appcatalog.TransactionalRepositories     = (*gormCatalogRepositories)(nil)
)
