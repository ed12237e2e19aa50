package persistence

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayableRepository implements PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

// FindByIDForTenant finds a payable by ID within a tenant
func (r *GormPayableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Payable, error) {
	var model models.PayableModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "payable", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a payable and locks its row
func (r *GormPayableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Payable, error) {
	var model models.PayableModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), forUpdate).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "payable", id)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists payables, newest number first
func (r *GormPayableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Payable, int64, error) {
	filter = filter.Normalize()

	count := r.db.WithContext(ctx).Model(&models.PayableModel{}).Scopes(tenantScope(tenantID))
	if filter.Status != "" {
		count = count.Where("status = ?", filter.Status)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PayableModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), pageScope(filter)).
		Order("payable_number DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]finance.Payable, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a new payable
func (r *GormPayableRepository) Create(ctx context.Context, payable *finance.Payable) error {
	if err := r.db.WithContext(ctx).Create(models.PayableModelFromDomain(payable)).Error; err != nil {
		return translateError(err, "payable number", payable.PayableNumber)
	}
	return nil
}

// Save writes back status and timestamps
func (r *GormPayableRepository) Save(ctx context.Context, payable *finance.Payable) error {
	result := r.db.WithContext(ctx).Model(&models.PayableModel{}).
		Scopes(tenantScope(payable.TenantID)).
		Where("id = ?", payable.ID).
		Updates(map[string]any{
			"status":       payable.Status,
			"paid_at":      payable.PaidAt,
			"cancelled_at": payable.CancelledAt,
			"version":      payable.Version,
			"updated_at":   payable.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("payable", payable.ID)
	}
	return nil
}

// GormPayablePaymentRepository implements PayablePaymentRepository using GORM
type GormPayablePaymentRepository struct {
	db *gorm.DB
}

// NewGormPayablePaymentRepository creates a new GormPayablePaymentRepository
func NewGormPayablePaymentRepository(db *gorm.DB) *GormPayablePaymentRepository {
	return &GormPayablePaymentRepository{db: db}
}

// Create appends a payable payment
func (r *GormPayablePaymentRepository) Create(ctx context.Context, payment *finance.PayablePayment) error {
	if err := r.db.WithContext(ctx).Create(models.PayablePaymentModelFromDomain(payment)).Error; err != nil {
		return translateError(err, "payable payment", payment.ID)
	}
	return nil
}

// ListByPayable returns the payments of a payable, oldest first
func (r *GormPayablePaymentRepository) ListByPayable(ctx context.Context, tenantID, payableID uuid.UUID) ([]finance.PayablePayment, error) {
	var rows []models.PayablePaymentModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("payable_id = ?", payableID).
		Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.PayablePayment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ finance.PayableRepository        = (*GormPayableRepository)(nil)
	_ finance.PayablePaymentRepository = (*GormPayablePaymentRepository)(nil)
)
