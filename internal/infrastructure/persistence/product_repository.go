package persistence

import (
	"context"
	"strings"

	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "product", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a product and locks its row
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), forUpdate).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "product", id)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists products of a tenant ordered by SKU
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	filter = filter.Normalize()
	filter.Status = ""

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenantScope(tenantID)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), pageScope(filter)).
		Order("sku ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, total, nil
}

// ExistsBySKU checks if a SKU is already used in the tenant
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenantScope(tenantID)).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, "product sku", product.SKU)
	}
	return nil
}

// SaveStock writes back the stock counters and the variant documents
func (r *GormProductRepository) SaveStock(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenantScope(product.TenantID)).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"stock":        model.Stock,
			"attributes":   model.Attributes,
			"combinations": model.Combinations,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("product", product.ID)
	}
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
