package trade

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant finds an order within a store
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindAllForTenant lists orders of a store, newest number first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// Create inserts an order; a duplicate order number yields a ConflictError
	Create(ctx context.Context, order *Order) error

	// Save updates status, items, total and the stock flag
	Save(ctx context.Context, order *Order) error
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, int64, error)

	// Create inserts a sale; a duplicate sale number yields a ConflictError
	Create(ctx context.Context, sale *Sale) error

	// Save updates status and reversal fields
	Save(ctx context.Context, sale *Sale) error
}
