package persistence

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceivableRepository implements ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindByIDForTenant finds a receivable by ID within a tenant
func (r *GormReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "receivable", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a receivable and locks its row
func (r *GormReceivableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), forUpdate).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "receivable", id)
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds the receivable billing an order
func (r *GormReceivableRepository) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("order_id = ?", orderID).First(&model).Error; err != nil {
		return nil, translateError(err, "receivable for order", orderID)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists receivables, newest number first
func (r *GormReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Receivable, int64, error) {
	filter = filter.Normalize()

	count := r.db.WithContext(ctx).Model(&models.ReceivableModel{}).Scopes(tenantScope(tenantID))
	if filter.Status != "" {
		count = count.Where("status = ?", filter.Status)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReceivableModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), pageScope(filter)).
		Order("receivable_number DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]finance.Receivable, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a new receivable
func (r *GormReceivableRepository) Create(ctx context.Context, receivable *finance.Receivable) error {
	if err := r.db.WithContext(ctx).Create(models.ReceivableModelFromDomain(receivable)).Error; err != nil {
		return translateError(err, "receivable number", receivable.ReceivableNumber)
	}
	return nil
}

// Save writes back amount, status and timestamps
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	result := r.db.WithContext(ctx).Model(&models.ReceivableModel{}).
		Scopes(tenantScope(receivable.TenantID)).
		Where("id = ?", receivable.ID).
		Updates(map[string]any{
			"amount":       receivable.Amount,
			"description":  receivable.Description,
			"status":       receivable.Status,
			"paid_at":      receivable.PaidAt,
			"cancelled_at": receivable.CancelledAt,
			"version":      receivable.Version,
			"updated_at":   receivable.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("receivable", receivable.ID)
	}
	return nil
}

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create appends a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	if err := r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error; err != nil {
		return translateError(err, "payment", payment.ID)
	}
	return nil
}

// ListByReceivable returns the payments of a receivable, oldest first
func (r *GormPaymentRepository) ListByReceivable(ctx context.Context, tenantID, receivableID uuid.UUID) ([]finance.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("receivable_id = ?", receivableID).
		Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.Payment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// GormReceivableLogRepository implements ReceivableLogRepository using GORM
type GormReceivableLogRepository struct {
	db *gorm.DB
}

// NewGormReceivableLogRepository creates a new GormReceivableLogRepository
func NewGormReceivableLogRepository(db *gorm.DB) *GormReceivableLogRepository {
	return &GormReceivableLogRepository{db: db}
}

// Create appends an audit entry
func (r *GormReceivableLogRepository) Create(ctx context.Context, entry *finance.ReceivableLog) error {
	return r.db.WithContext(ctx).Create(models.ReceivableLogModelFromDomain(entry)).Error
}

// ListByReceivable returns the audit trail of a receivable, oldest first
func (r *GormReceivableLogRepository) ListByReceivable(ctx context.Context, tenantID, receivableID uuid.UUID) ([]finance.ReceivableLog, error) {
	var rows []models.ReceivableLogModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("receivable_id = ?", receivableID).
		Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.ReceivableLog, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ finance.ReceivableRepository    = (*GormReceivableRepository)(nil)
	_ finance.PaymentRepository       = (*GormPaymentRepository)(nil)
	_ finance.ReceivableLogRepository = (*GormReceivableLogRepository)(nil)
)
