package shared

import (
	"context"

	"github.com/google/uuid"
)

// SequenceCounter names a per-store numbering sequence
type SequenceCounter string

const (
	CounterOrder      SequenceCounter = "order"
	CounterReceivable SequenceCounter = "receivable"
	CounterSale       SequenceCounter = "sale"
	CounterPayable    SequenceCounter = "payable"
)

// IsValid reports whether the counter is known
func (c SequenceCounter) IsValid() bool {
	switch c {
	case CounterOrder, CounterReceivable, CounterSale, CounterPayable:
		return true
	}
	return false
}

// SequenceAllocator issues gap-free numbers per (store, counter).
// Allocate must be called inside the transaction that inserts the numbered row.
type SequenceAllocator interface {
	Allocate(ctx context.Context, tenantID uuid.UUID, counter SequenceCounter) (int64, error)
}

// StoreLocker takes the transaction-scoped exclusive lock for a store.
// The lock is released when the surrounding transaction ends.
type StoreLocker interface {
	LockStore(ctx context.Context, tenantID uuid.UUID) error
}

// StoreGuard is an optional, best-effort cross-instance guard taken around
// point-of-sale commits. Failing to obtain it never blocks the caller;
// the returned release func is always safe to call.
type StoreGuard interface {
	Acquire(ctx context.Context, tenantID uuid.UUID) (release func())
}
