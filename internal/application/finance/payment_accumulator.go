// Package finance records installments against receivables and payables.
package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentAccumulator appends payments and settles a ledger entry once the
// sum of its payments covers the amount. Paid-to-date is always re-summed
// from the payment rows, never stored.
type PaymentAccumulator struct {
	idempotency shared.IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
}

// NewPaymentAccumulator creates a new PaymentAccumulator. A nil store
// disables idempotency keys.
func NewPaymentAccumulator(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *PaymentAccumulator {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentAccumulator{idempotency: store, ttl: ttl, logger: logger}
}

// Claim reserves an idempotency key for one ledger entry. claimed is false
// when the key was seen before. release forgets the key and must be called
// when the guarded write fails; it is a no-op when no key was reserved.
func (a *PaymentAccumulator) Claim(ctx context.Context, tenantID, entryID uuid.UUID, key string) (claimed bool, release func(), err error) {
	key = strings.TrimSpace(key)
	if key == "" || a.idempotency == nil {
		return true, func() {}, nil
	}
	scoped := fmt.Sprintf("%s:%s:%s", tenantID, entryID, key)
	ok, err := a.idempotency.MarkProcessed(ctx, scoped, a.ttl)
	if err != nil {
		return false, func() {}, fmt.Errorf("claim idempotency key: %w", err)
	}
	if !ok {
		return false, func() {}, nil
	}
	return true, func() {
		if err := a.idempotency.Release(context.WithoutCancel(ctx), scoped); err != nil {
			a.logger.Warn("failed to release idempotency key", zap.String("key", scoped), zap.Error(err))
		}
	}, nil
}

// ReceivableOutcome is what Record did to a receivable
type ReceivableOutcome struct {
	Receivable *finance.Receivable
	Payment    *finance.Payment
	Payments   []finance.Payment
	TotalPaid  decimal.Decimal
	Settled    bool
}

// Record appends a payment to a pending receivable and marks it paid when
// covered. It must run inside the caller's transaction; the receivable row
// stays locked until that transaction ends.
func (a *PaymentAccumulator) Record(ctx context.Context, repos txn.TransactionalRepositories, tenantID, receivableID uuid.UUID, req AddPaymentRequest) (*ReceivableOutcome, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be greater than zero")
	}
	r, err := repos.Receivables().FindByIDForUpdate(ctx, tenantID, receivableID)
	if err != nil {
		return nil, err
	}
	if r.Status != finance.ReceivableStatusPending {
		return nil, shared.NewInvalidStateError("receivable %d is %s and cannot take payments", r.ReceivableNumber, r.Status)
	}

	payment, err := finance.NewPayment(tenantID, r.ID, req.Amount, req.Notes, req.ActorID)
	if err != nil {
		return nil, err
	}
	payment.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if err := repos.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}

	payments, err := repos.Payments().ListByReceivable(ctx, tenantID, r.ID)
	if err != nil {
		return nil, err
	}
	total := finance.TotalPaid(payments)

	logs := repos.ReceivableLogs()
	if err := logs.Create(ctx, finance.NewReceivableLog(r, finance.LogActionPaymentAdded,
		"", payment.Amount.String(), payment.Notes, req.ActorID)); err != nil {
		return nil, err
	}

	settled, err := r.SettleIfCovered(total)
	if err != nil {
		return nil, err
	}
	r.AddDomainEvent(finance.NewReceivablePaymentRecordedEvent(r, payment, total))
	if settled {
		if err := repos.Receivables().Save(ctx, r); err != nil {
			return nil, err
		}
		if err := logs.Create(ctx, finance.NewReceivableLog(r, finance.LogActionPaid,
			string(finance.ReceivableStatusPending), string(finance.ReceivableStatusPaid),
			"settled by payments", req.ActorID)); err != nil {
			return nil, err
		}
	}

	return &ReceivableOutcome{
		Receivable: r,
		Payment:    payment,
		Payments:   payments,
		TotalPaid:  total,
		Settled:    settled,
	}, nil
}

// Current reads a receivable and its payments without changing anything
func (a *PaymentAccumulator) Current(ctx context.Context, repos txn.TransactionalRepositories, tenantID, receivableID uuid.UUID) (*ReceivableOutcome, error) {
	r, err := repos.Receivables().FindByIDForTenant(ctx, tenantID, receivableID)
	if err != nil {
		return nil, err
	}
	payments, err := repos.Payments().ListByReceivable(ctx, tenantID, r.ID)
	if err != nil {
		return nil, err
	}
	return &ReceivableOutcome{Receivable: r, Payments: payments, TotalPaid: finance.TotalPaid(payments)}, nil
}

// ToResult converts an outcome to the API result
func (o *ReceivableOutcome) ToResult(duplicate bool) *PaymentResult {
	return &PaymentResult{
		Receivable: ToReceivableResponse(o.Receivable),
		Payments:   ToPaymentResponses(o.Payments),
		TotalPaid:  o.TotalPaid,
		Remaining:  remaining(o.Receivable.Amount, o.TotalPaid),
		Duplicate:  duplicate,
	}
}
