package finance

import (
	"context"
	"strings"

	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayableService manages money owed to suppliers. It mirrors the receivable
// accumulator without any order or stock side effects.
type PayableService struct {
	scope          txn.TransactionScope
	payables       finance.PayableRepository
	accumulator    *PaymentAccumulator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPayableService creates a new PayableService
func NewPayableService(scope txn.TransactionScope, payables finance.PayableRepository, accumulator *PaymentAccumulator, logger *zap.Logger) *PayableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayableService{scope: scope, payables: payables, accumulator: accumulator, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PayableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PayableService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// CreatePayable registers a payable under the next payable number
func (s *PayableService) CreatePayable(ctx context.Context, tenantID uuid.UUID, req CreatePayableRequest) (*PayableResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewValidationError("payable amount must be greater than zero")
	}
	var payable *finance.Payable
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		number, err := repos.Sequences().Allocate(ctx, tenantID, shared.CounterPayable)
		if err != nil {
			return err
		}
		payable, err = finance.NewPayable(tenantID, number, req.SupplierName, req.Amount, req.Description, req.DueDate)
		if err != nil {
			return err
		}
		payable.SetCreatedBy(req.ActorID)
		return repos.Payables().Create(ctx, payable)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payable created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payable_id", payable.ID.String()),
		zap.Int64("payable_number", payable.PayableNumber),
	)
	s.publish(ctx, payable.PullDomainEvents())
	resp := ToPayableResponse(payable)
	return &resp, nil
}

// AddPayment records an installment and settles the payable once covered
func (s *PayableService) AddPayment(ctx context.Context, tenantID, payableID uuid.UUID, req AddPaymentRequest) (*PayablePaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be greater than zero")
	}
	claimed, release, err := s.accumulator.Claim(ctx, tenantID, payableID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.current(ctx, tenantID, payableID)
	}

	var (
		payable *finance.Payable
		total   decimal.Decimal
	)
	err = s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		payable, err = repos.Payables().FindByIDForUpdate(ctx, tenantID, payableID)
		if err != nil {
			return err
		}
		if payable.Status != finance.PayableStatusPending {
			return shared.NewInvalidStateError("payable %d is %s and cannot take payments", payable.PayableNumber, payable.Status)
		}
		payment, err := finance.NewPayablePayment(tenantID, payable.ID, req.Amount, req.Notes, req.ActorID)
		if err != nil {
			return err
		}
		payment.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
		if err := repos.PayablePayments().Create(ctx, payment); err != nil {
			return err
		}
		payments, err := repos.PayablePayments().ListByPayable(ctx, tenantID, payable.ID)
		if err != nil {
			return err
		}
		total = finance.TotalPayablePaid(payments)
		payable.AddDomainEvent(finance.NewPayablePaymentRecordedEvent(payable, payment, total))
		if payable.SettleIfCovered(total) {
			return repos.Payables().Save(ctx, payable)
		}
		return nil
	})
	if err != nil {
		release()
		return nil, err
	}

	s.publish(ctx, payable.PullDomainEvents())
	return &PayablePaymentResult{
		Payable:   ToPayableResponse(payable),
		TotalPaid: total,
		Remaining: remaining(payable.Amount, total),
	}, nil
}

func (s *PayableService) current(ctx context.Context, tenantID, payableID uuid.UUID) (*PayablePaymentResult, error) {
	var result *PayablePaymentResult
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		payable, err := repos.Payables().FindByIDForTenant(ctx, tenantID, payableID)
		if err != nil {
			return err
		}
		payments, err := repos.PayablePayments().ListByPayable(ctx, tenantID, payableID)
		if err != nil {
			return err
		}
		total := finance.TotalPayablePaid(payments)
		result = &PayablePaymentResult{
			Payable:   ToPayableResponse(payable),
			TotalPaid: total,
			Remaining: remaining(payable.Amount, total),
			Duplicate: true,
		}
		return nil
	})
	return result, err
}

// CancelPayable cancels a pending payable
func (s *PayableService) CancelPayable(ctx context.Context, tenantID, payableID uuid.UUID) (*PayableResponse, error) {
	var payable *finance.Payable
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		payable, err = repos.Payables().FindByIDForUpdate(ctx, tenantID, payableID)
		if err != nil {
			return err
		}
		if err := payable.Cancel(); err != nil {
			return err
		}
		return repos.Payables().Save(ctx, payable)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPayableResponse(payable)
	return &resp, nil
}

// GetPayable returns one payable
func (s *PayableService) GetPayable(ctx context.Context, tenantID, payableID uuid.UUID) (*PayableResponse, error) {
	payable, err := s.payables.FindByIDForTenant(ctx, tenantID, payableID)
	if err != nil {
		return nil, err
	}
	resp := ToPayableResponse(payable)
	return &resp, nil
}

// ListPayables lists payables of a store
func (s *PayableService) ListPayables(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PayableResponse, int64, error) {
	if filter.Status != "" && !finance.PayableStatus(filter.Status).IsValid() {
		return nil, 0, shared.NewValidationError("unknown payable status %q", filter.Status)
	}
	rows, total, err := s.payables.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PayableResponse, len(rows))
	for i := range rows {
		out[i] = ToPayableResponse(&rows[i])
	}
	return out, total, nil
}
