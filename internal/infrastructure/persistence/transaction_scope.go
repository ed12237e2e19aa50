package persistence

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos txn.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Sales() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) Receivables() finance.ReceivableRepository {
	return NewGormReceivableRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReceivableLogs() finance.ReceivableLogRepository {
	return NewGormReceivableLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payables() finance.PayableRepository {
	return NewGormPayableRepository(r.tx)
}

func (r *gormTransactionalRepositories) PayablePayments() finance.PayablePaymentRepository {
	return NewGormPayablePaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Sequences() shared.SequenceAllocator {
	return NewGormSequenceAllocator(r.tx)
}

func (r *gormTransactionalRepositories) Locker() shared.StoreLocker {
	return NewGormStoreLocker(r.tx)
}

var (
	_ txn.TransactionScope          = (*GormTransactionScope)(nil)
	_ txn.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
