package catalog

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	// FindByIDForTenant finds a product within a store
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindAllForTenant lists products of a store
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)

	// ExistsBySKU reports whether a SKU is already taken in the store
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)

	// Create inserts a new product; a duplicate SKU yields a ConflictError
	Create(ctx context.Context, product *Product) error

	// SaveStock writes back stock, attributes and combinations as a whole row
	SaveStock(ctx context.Context, product *Product) error
}
