// Package fulfillment keeps orders, receivables and stock consistent when any
// of them changes status.
package fulfillment

import (
	"context"
	"fmt"

	financeapp "github.com/atelierpoz/backoffice/internal/application/finance"
	"github.com/atelierpoz/backoffice/internal/application/inventory"
	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Synchronizer owns every status change that can move stock or cascade
// between an order and its receivable.
//
// An order's items are decremented once, either when it is billed or when it
// completes without a receivable, and Order.StockApplied records which
// happened. Status writes commit first; stock follows after commit through the
// StockLedger and a failure there is logged, never returned.
type Synchronizer struct {
	scope          txn.TransactionScope
	accumulator    *financeapp.PaymentAccumulator
	ledger         *inventory.StockLedger
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSynchronizer creates a new Synchronizer
func NewSynchronizer(
	scope txn.TransactionScope,
	accumulator *financeapp.PaymentAccumulator,
	ledger *inventory.StockLedger,
	logger *zap.Logger,
) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{scope: scope, accumulator: accumulator, ledger: ledger, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Synchronizer) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateReceivableFromOrder bills a pending order and takes its items from stock
func (s *Synchronizer) CreateReceivableFromOrder(ctx context.Context, tenantID, orderID uuid.UUID, req CreateReceivableRequest) (*financeapp.ReceivableResponse, error) {
	var (
		order      *trade.Order
		receivable *finance.Receivable
		decrement  bool
	)
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order.Status != trade.OrderStatusPending {
			return shared.NewInvalidStateError("order %d is %s; only pending orders can be billed", order.OrderNumber, order.Status)
		}
		existing, err := findOrderReceivable(ctx, repos, tenantID, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewInvalidStateError("order %d already has receivable %d", order.OrderNumber, existing.ReceivableNumber)
		}

		amount := order.Total
		if req.Amount != nil {
			amount = *req.Amount
		}
		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Order #%d", order.OrderNumber)
		}
		number, err := repos.Sequences().Allocate(ctx, tenantID, shared.CounterReceivable)
		if err != nil {
			return err
		}
		linked := order.ID
		receivable, err = finance.NewReceivable(tenantID, number, amount, &linked, order.ClientID, description)
		if err != nil {
			return err
		}
		receivable.SetCreatedBy(req.ActorID)
		if err := repos.Receivables().Create(ctx, receivable); err != nil {
			return err
		}
		if err := repos.ReceivableLogs().Create(ctx, finance.NewReceivableLog(receivable, finance.LogActionCreated,
			"", amount.String(), description, req.ActorID)); err != nil {
			return err
		}

		if decrement = order.MarkStockApplied(); decrement {
			return repos.Orders().Save(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receivable created from order",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int64("receivable_number", receivable.ReceivableNumber),
		zap.String("amount", receivable.Amount.String()),
	)
	if decrement {
		s.ledger.AdjustAfterCommit(ctx, tenantID, order.Items, catalog.StockDecrement, "receivable_created")
	}
	s.publish(ctx, order, receivable)

	resp := financeapp.ToReceivableResponse(receivable)
	return &resp, nil
}

// CreateManualReceivable records money owed outside any order. No stock moves.
func (s *Synchronizer) CreateManualReceivable(ctx context.Context, tenantID uuid.UUID, req ManualReceivableRequest) (*financeapp.ReceivableResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewValidationError("receivable amount must be greater than zero")
	}
	var receivable *finance.Receivable
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		number, err := repos.Sequences().Allocate(ctx, tenantID, shared.CounterReceivable)
		if err != nil {
			return err
		}
		receivable, err = finance.NewReceivable(tenantID, number, req.Amount, nil, req.ClientID, req.Description)
		if err != nil {
			return err
		}
		receivable.SetCreatedBy(req.ActorID)
		if err := repos.Receivables().Create(ctx, receivable); err != nil {
			return err
		}
		return repos.ReceivableLogs().Create(ctx, finance.NewReceivableLog(receivable, finance.LogActionCreated,
			"", req.Amount.String(), receivable.Description, req.ActorID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual receivable created",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("receivable_number", receivable.ReceivableNumber),
		zap.String("amount", receivable.Amount.String()),
	)
	s.publish(ctx, nil, receivable)

	resp := financeapp.ToReceivableResponse(receivable)
	return &resp, nil
}

// AddPayment appends a payment to a pending receivable. When the payments
// cover the amount the receivable becomes paid and its order completes in the
// same transaction, without touching stock. A repeated idempotency key returns
// the current state with Duplicate set.
func (s *Synchronizer) AddPayment(ctx context.Context, tenantID, receivableID uuid.UUID, req financeapp.AddPaymentRequest) (*financeapp.PaymentResult, error) {
	claimed, release, err := s.accumulator.Claim(ctx, tenantID, receivableID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if !claimed {
		var current *financeapp.ReceivableOutcome
		err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
			var err error
			current, err = s.accumulator.Current(ctx, repos, tenantID, receivableID)
			return err
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("duplicate payment ignored",
			zap.String("tenant_id", tenantID.String()),
			zap.String("receivable_id", receivableID.String()),
			zap.String("idempotency_key", req.IdempotencyKey),
		)
		return current.ToResult(true), nil
	}

	var (
		outcome *financeapp.ReceivableOutcome
		order   *trade.Order
	)
	err = s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		outcome, err = s.accumulator.Record(ctx, repos, tenantID, receivableID, req)
		if err != nil {
			return err
		}
		if !outcome.Settled || !outcome.Receivable.IsOrderLinked() {
			return nil
		}
		order, err = s.completeLinkedOrder(ctx, repos, outcome.Receivable)
		return err
	})
	if err != nil {
		release()
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("receivable_id", receivableID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("total_paid", outcome.TotalPaid.String()),
		zap.Bool("settled", outcome.Settled),
	)
	s.publish(ctx, order, outcome.Receivable)
	return outcome.ToResult(false), nil
}

// UpdateReceivableStatus applies an operator status change to a receivable.
// Paid completes the linked order; cancelled returns the order's items to
// stock if they were taken, leaving the order status alone.
func (s *Synchronizer) UpdateReceivableStatus(ctx context.Context, tenantID, receivableID uuid.UUID, status string, actorID uuid.UUID) (*financeapp.ReceivableResponse, error) {
	target := finance.ReceivableStatus(status)
	if !target.IsValid() {
		return nil, shared.NewValidationError("unknown receivable status %q", status)
	}

	var (
		receivable *finance.Receivable
		order      *trade.Order
		restore    bool
	)
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		receivable, err = repos.Receivables().FindByIDForUpdate(ctx, tenantID, receivableID)
		if err != nil {
			return err
		}
		previous := receivable.Status
		if err := receivable.TransitionTo(target); err != nil {
			return err
		}
		if err := repos.Receivables().Save(ctx, receivable); err != nil {
			return err
		}
		action := finance.LogActionPaid
		if target == finance.ReceivableStatusCancelled {
			action = finance.LogActionCancelled
		}
		if err := repos.ReceivableLogs().Create(ctx, finance.NewReceivableLog(receivable, action,
			string(previous), string(target), "status changed", actorID)); err != nil {
			return err
		}

		if !receivable.IsOrderLinked() {
			return nil
		}
		if target == finance.ReceivableStatusPaid {
			order, err = s.completeLinkedOrder(ctx, repos, receivable)
			return err
		}

		order, err = repos.Orders().FindByIDForUpdate(ctx, tenantID, *receivable.OrderID)
		if err != nil {
			return err
		}
		if order.Status == trade.OrderStatusCancelled {
			return nil
		}
		if restore = order.MarkStockRestored(); restore {
			return repos.Orders().Save(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receivable status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("receivable_id", receivableID.String()),
		zap.String("status", string(receivable.Status)),
	)
	if restore {
		s.ledger.AdjustAfterCommit(ctx, tenantID, order.Items, catalog.StockIncrement, "receivable_cancelled")
	}
	s.publish(ctx, order, receivable)

	resp := financeapp.ToReceivableResponse(receivable)
	return &resp, nil
}

// UpdateOrderStatus moves an order along pending, processing, completed and
// cancelled.
//
// Completing an order with a pending receivable marks that receivable paid.
// Completing an unbilled order takes its items from stock. Cancelling a
// completed, unbilled order returns them.
func (s *Synchronizer) UpdateOrderStatus(ctx context.Context, tenantID, orderID uuid.UUID, status string, actorID uuid.UUID) (*tradeapp.OrderResponse, error) {
	target := trade.OrderStatus(status)
	if !target.IsValid() {
		return nil, shared.NewValidationError("unknown order status %q", status)
	}

	var (
		order      *trade.Order
		receivable *finance.Receivable
		sign       catalog.StockSign
	)
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		previous := order.Status
		if err := order.TransitionTo(target); err != nil {
			return err
		}

		switch target {
		case trade.OrderStatusCompleted:
			receivable, err = findOrderReceivable(ctx, repos, tenantID, order.ID)
			if err != nil {
				return err
			}
			switch {
			case receivable != nil && receivable.Status == finance.ReceivableStatusPending:
				receivable, err = repos.Receivables().FindByIDForUpdate(ctx, tenantID, receivable.ID)
				if err != nil {
					return err
				}
				if err := receivable.MarkPaid(); err != nil {
					return err
				}
				if err := repos.Receivables().Save(ctx, receivable); err != nil {
					return err
				}
				if err := repos.ReceivableLogs().Create(ctx, finance.NewReceivableLog(receivable, finance.LogActionPaid,
					string(finance.ReceivableStatusPending), string(finance.ReceivableStatusPaid),
					fmt.Sprintf("order %d completed", order.OrderNumber), actorID)); err != nil {
					return err
				}
			case receivable != nil && receivable.Status == finance.ReceivableStatusPaid:
			default:
				if order.MarkStockApplied() {
					sign = catalog.StockDecrement
				}
			}

		case trade.OrderStatusCancelled:
			receivable, err = findOrderReceivable(ctx, repos, tenantID, order.ID)
			if err != nil {
				return err
			}
			if receivable == nil {
				if previous == trade.OrderStatusCompleted && order.MarkStockRestored() {
					sign = catalog.StockIncrement
				}
			} else if receivable.Status != finance.ReceivableStatusCancelled && order.StockApplied {
				s.logger.Warn("order cancelled while billed; stock not restored",
					zap.String("tenant_id", tenantID.String()),
					zap.String("order_id", order.ID.String()),
					zap.String("receivable_status", string(receivable.Status)),
				)
			}
		}

		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)
	if sign != 0 {
		s.ledger.AdjustAfterCommit(ctx, tenantID, order.Items, sign, "order_"+string(target))
	}
	s.publish(ctx, order, receivable)

	resp := tradeapp.ToOrderResponse(order)
	return &resp, nil
}

// ReplaceOrderItems swaps the items of a billed order. When the old items
// were taken from stock they are returned and the new items are taken. The
// receivable amount follows the new total when asked to.
func (s *Synchronizer) ReplaceOrderItems(ctx context.Context, tenantID, orderID uuid.UUID, req ReplaceItemsRequest) (*tradeapp.OrderResponse, error) {
	if err := req.Items.Validate(); err != nil {
		return nil, err
	}

	var (
		order      *trade.Order
		previous   trade.LineItems
		moveStock  bool
		receivable *finance.Receivable
	)
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		receivable, err = findOrderReceivable(ctx, repos, tenantID, order.ID)
		if err != nil {
			return err
		}
		if receivable == nil {
			return shared.NewInvalidStateError("order %d has no receivable", order.OrderNumber)
		}
		if receivable.Status == finance.ReceivableStatusCancelled {
			return shared.NewInvalidStateError("receivable %d of order %d is cancelled", receivable.ReceivableNumber, order.OrderNumber)
		}

		previous = order.Items
		if err := order.ReplaceItems(req.Items, req.Total); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		moveStock = order.StockApplied

		if !req.UpdateReceivableAmount {
			return nil
		}
		receivable, err = repos.Receivables().FindByIDForUpdate(ctx, tenantID, receivable.ID)
		if err != nil {
			return err
		}
		oldAmount, err := receivable.UpdateAmount(req.Total)
		if err != nil {
			return err
		}
		if err := repos.Receivables().Save(ctx, receivable); err != nil {
			return err
		}
		return repos.ReceivableLogs().Create(ctx, finance.NewReceivableLog(receivable, finance.LogActionAmountChanged,
			oldAmount.String(), receivable.Amount.String(), "order items replaced", req.ActorID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order items replaced",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int("previous_lines", len(previous)),
		zap.Int("lines", len(order.Items)),
		zap.Bool("stock_moved", moveStock),
	)
	if moveStock {
		s.ledger.AdjustAfterCommit(ctx, tenantID, previous, catalog.StockIncrement, "items_replaced")
		s.ledger.AdjustAfterCommit(ctx, tenantID, order.Items, catalog.StockDecrement, "items_replaced")
	}

	resp := tradeapp.ToOrderResponse(order)
	return &resp, nil
}

// completeLinkedOrder moves the order billed by a paid receivable to
// completed. Stock was already taken at billing time, so none moves here.
func (s *Synchronizer) completeLinkedOrder(ctx context.Context, repos txn.TransactionalRepositories, r *finance.Receivable) (*trade.Order, error) {
	order, err := repos.Orders().FindByIDForUpdate(ctx, r.TenantID, *r.OrderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case trade.OrderStatusCompleted:
		return order, nil
	case trade.OrderStatusCancelled:
		s.logger.Warn("receivable paid for a cancelled order",
			zap.String("tenant_id", r.TenantID.String()),
			zap.String("order_id", order.ID.String()),
			zap.Int64("receivable_number", r.ReceivableNumber),
		)
		return order, nil
	}
	if err := order.TransitionTo(trade.OrderStatusCompleted); err != nil {
		return nil, err
	}
	return order, repos.Orders().Save(ctx, order)
}

// findOrderReceivable returns the receivable billing an order, or nil
func findOrderReceivable(ctx context.Context, repos txn.TransactionalRepositories, tenantID, orderID uuid.UUID) (*finance.Receivable, error) {
	r, err := repos.Receivables().FindByOrderID(ctx, tenantID, orderID)
	if shared.IsCode(err, shared.CodeNotFound) {
		return nil, nil
	}
	return r, err
}

func (s *Synchronizer) publish(ctx context.Context, order *trade.Order, r *finance.Receivable) {
	if s.eventPublisher == nil {
		return
	}
	var events []shared.DomainEvent
	if order != nil {
		events = append(events, order.PullDomainEvents()...)
	}
	if r != nil {
		events = append(events, r.PullDomainEvents()...)
	}
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish events", zap.Error(err))
	}
}
