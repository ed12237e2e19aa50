package persistence

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "order", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an order and locks its row
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), forUpdate).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "order", id)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders, newest number first
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	filter = filter.Normalize()

	count := r.db.WithContext(ctx).Model(&models.OrderModel{}).Scopes(tenantScope(tenantID))
	if filter.Status != "" {
		count = count.Where("status = ?", filter.Status)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), pageScope(filter)).
		Order("order_number DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Create inserts a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	if err := r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error; err != nil {
		return translateError(err, "order number", order.OrderNumber)
	}
	return nil
}

// Save writes back the mutable order columns
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(tenantScope(order.TenantID)).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"items":         model.Items,
			"total":         model.Total,
			"status":        model.Status,
			"notes":         model.Notes,
			"stock_applied": model.StockApplied,
			"completed_at":  model.CompletedAt,
			"cancelled_at":  model.CancelledAt,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("order", order.ID)
	}
	return nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
