// Package trade hosts the catalog, order and point-of-sale use cases.
package trade

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductService registers products and reads their stock
type ProductService struct {
	scope    txn.TransactionScope
	products catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(scope txn.TransactionScope, products catalog.ProductRepository) *ProductService {
	return &ProductService{scope: scope, products: products}
}

// CreateProduct registers a product; the SKU must be unique in the store
func (s *ProductService) CreateProduct(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	if err := product.SetVariants(req.Attributes, req.Combinations); err != nil {
		return nil, err
	}
	product.SetCreatedBy(req.ActorID)

	err = s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		exists, err := repos.Products().ExistsBySKU(ctx, tenantID, product.SKU)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("product sku %s already exists", product.SKU)
		}
		return repos.Products().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct returns one product
func (s *ProductService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts lists products of a store
func (s *ProductService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductResponse, int64, error) {
	rows, total, err := s.products.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, len(rows))
	for i := range rows {
		out[i] = ToProductResponse(&rows[i])
	}
	return out, total, nil
}
