package persistence

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByIDForTenant finds a sale by ID within a tenant
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "sale", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a sale and locks its row
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), forUpdate).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "sale", id)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists sales, newest number first
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, int64, error) {
	filter = filter.Normalize()

	count := r.db.WithContext(ctx).Model(&models.SaleModel{}).Scopes(tenantScope(tenantID))
	if filter.Status != "" {
		count = count.Where("status = ?", filter.Status)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SaleModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), pageScope(filter)).
		Order("sale_number DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	sales := make([]trade.Sale, len(rows))
	for i := range rows {
		sales[i] = *rows[i].ToDomain()
	}
	return sales, total, nil
}

// Create inserts a new sale
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	if err := r.db.WithContext(ctx).Create(models.SaleModelFromDomain(sale)).Error; err != nil {
		return translateError(err, "sale number", sale.SaleNumber)
	}
	return nil
}

// Save writes back the status and reversal columns
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	result := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Scopes(tenantScope(sale.TenantID)).
		Where("id = ?", sale.ID).
		Updates(map[string]any{
			"status":      sale.Status,
			"reversed_at": sale.ReversedAt,
			"reversed_by": sale.ReversedBy,
			"version":     sale.Version,
			"updated_at":  sale.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("sale", sale.ID)
	}
	return nil
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
