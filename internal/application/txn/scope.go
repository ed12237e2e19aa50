// Package txn defines the unit-of-work boundary shared by the application services.
package txn

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
)

// TransactionScope runs fn inside one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to the running transaction.
// Only these may be used inside Execute.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Orders() trade.OrderRepository
	Sales() trade.SaleRepository
	Receivables() finance.ReceivableRepository
	Payments() finance.PaymentRepository
	ReceivableLogs() finance.ReceivableLogRepository
	Payables() finance.PayableRepository
	PayablePayments() finance.PayablePaymentRepository
	Sequences() shared.SequenceAllocator
	Locker() shared.StoreLocker
}
