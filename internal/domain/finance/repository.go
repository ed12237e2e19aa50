package finance

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceivableRepository defines the interface for receivable persistence
type ReceivableRepository interface {
	// FindByIDForTenant finds a receivable within a store
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Receivable, error)

	// FindByIDForUpdate finds a receivable and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Receivable, error)

	// FindByOrderID finds the receivable billing an order, in any status.
	// Returns a NotFound error when the order has none.
	FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*Receivable, error)

	// FindAllForTenant lists receivables of a store
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Receivable, int64, error)

	// Create inserts a receivable; a duplicate number or a second receivable
	// for the same order yields a ConflictError
	Create(ctx context.Context, receivable *Receivable) error

	// Save updates amount, status and timestamps
	Save(ctx context.Context, receivable *Receivable) error
}

// PaymentRepository defines the append-only payment ledger
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	ListByReceivable(ctx context.Context, tenantID, receivableID uuid.UUID) ([]Payment, error)
}

// ReceivableLogRepository stores the receivable audit trail
type ReceivableLogRepository interface {
	Create(ctx context.Context, entry *ReceivableLog) error
	ListByReceivable(ctx context.Context, tenantID, receivableID uuid.UUID) ([]ReceivableLog, error)
}

// PayableRepository defines the interface for payable persistence
type PayableRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payable, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Payable, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payable, int64, error)
	Create(ctx context.Context, payable *Payable) error
	Save(ctx context.Context, payable *Payable) error
}

// PayablePaymentRepository defines the append-only payable payment ledger
type PayablePaymentRepository interface {
	Create(ctx context.Context, payment *PayablePayment) error
	ListByPayable(ctx context.Context, tenantID, payableID uuid.UUID) ([]PayablePayment, error)
}
