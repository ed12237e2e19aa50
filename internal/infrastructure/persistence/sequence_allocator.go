package persistence

import (
	"context"
	"fmt"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sequenceColumns maps each counter to the table and column it numbers
var sequenceColumns = map[shared.SequenceCounter]struct{ table, column string }{
	shared.CounterOrder:      {"orders", "order_number"},
	shared.CounterReceivable: {"receivables", "receivable_number"},
	shared.CounterSale:       {"sales", "sale_number"},
	shared.CounterPayable:    {"payables", "payable_number"},
}

// GormStoreLocker takes the per-store transaction lock.
// On PostgreSQL this is an advisory lock released at commit or rollback.
// sqlite runs one writer at a time and needs nothing.
type GormStoreLocker struct {
	db *gorm.DB
}

// NewGormStoreLocker creates a locker bound to db, normally a transaction
func NewGormStoreLocker(db *gorm.DB) *GormStoreLocker {
	return &GormStoreLocker{db: db}
}

// LockStore blocks until the store lock is held by the current transaction
func (l *GormStoreLocker) LockStore(ctx context.Context, tenantID uuid.UUID) error {
	if l.db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := l.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", tenantID.String()).Error; err != nil {
		return fmt.Errorf("lock store %s: %w", tenantID, err)
	}
	return nil
}

// GormSequenceAllocator issues max+1 numbers under the store lock
type GormSequenceAllocator struct {
	db     *gorm.DB
	locker *GormStoreLocker
}

// NewGormSequenceAllocator creates an allocator bound to db, normally a transaction
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db, locker: NewGormStoreLocker(db)}
}

// Allocate returns the next number for counter in the store. The caller must
// insert the numbered row in the same transaction; the lock is held until it ends.
func (a *GormSequenceAllocator) Allocate(ctx context.Context, tenantID uuid.UUID, counter shared.SequenceCounter) (int64, error) {
	target, ok := sequenceColumns[counter]
	if !ok {
		return 0, shared.NewValidationError("unknown sequence counter %q", counter)
	}
	if err := a.locker.LockStore(ctx, tenantID); err != nil {
		return 0, err
	}

	var next int64
	err := a.db.WithContext(ctx).
		Table(target.table).
		Select(fmt.Sprintf("COALESCE(MAX(%s), 0) + 1", target.column)).
		Where("tenant_id = ?", tenantID).
		Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("allocate %s number: %w", counter, err)
	}
	return next, nil
}

var (
	_ shared.StoreLocker       = (*GormStoreLocker)(nil)
	_ shared.SequenceAllocator = (*GormSequenceAllocator)(nil)
)
