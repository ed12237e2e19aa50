package persistence

import (
	"errors"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tenantScope restricts a query to one store
func tenantScope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// pageScope applies status filtering and paging
func pageScope(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db.Offset(filter.Offset()).Limit(filter.PageSize)
	}
}

// forUpdate takes a row lock on dialects that support it. sqlite has no
// row locks; its single writer serializes transactions instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translateError maps driver-level errors onto domain errors
func translateError(err error, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError("%s %v conflicts with an existing record", resource, id)
	default:
		return err
	}
}
