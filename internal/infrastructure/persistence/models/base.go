package models

import (
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantAggregateModel holds the columns every store-owned aggregate row
// carries. The composite (tenant_id, id) lookups all start from tenant_id.
type TenantAggregateModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	Version   int        `gorm:"not null;default:1"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (m *TenantAggregateModel) fromRoot(root shared.TenantAggregateRoot) {
	m.ID = root.ID
	m.TenantID = root.TenantID
	m.CreatedBy = root.CreatedBy
	m.Version = root.Version
	m.CreatedAt = root.CreatedAt
	m.UpdatedAt = root.UpdatedAt
}

// toRoot rebuilds the aggregate header. Pending events are never persisted,
// so a loaded aggregate starts with none.
func (m *TenantAggregateModel) toRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
}
