package trade

import (
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is accepted
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted:
		return target == OrderStatusCancelled
	}
	return false
}

// Order is a customer request awaiting fulfillment or billing
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber int64
	ClientID    *uuid.UUID
	Items       LineItems
	Total       decimal.Decimal
	Status      OrderStatus
	Notes       string
	// StockApplied is true while the order's items are decremented from stock.
	// Set once when stock is taken, cleared when it is restored.
	StockApplied bool
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// NewOrder creates a pending order; the number is assigned by the allocator
func NewOrder(tenantID uuid.UUID, orderNumber int64, clientID *uuid.UUID, items LineItems, total decimal.Decimal) (*Order, error) {
	if err := items.Validate(); err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, shared.NewValidationError("order total cannot be negative")
	}
	if orderNumber <= 0 {
		return nil, shared.NewValidationError("order number must be positive")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		ClientID:            clientID,
		Items:               items,
		Total:               total,
		Status:              OrderStatusPending,
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// TransitionTo moves the order to target, enforcing the status graph
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("unknown order status %q", target)
	}
	if o.Status.IsTerminal() {
		return shared.NewInvalidStateError("order %d is %s and cannot change status", o.OrderNumber, o.Status)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError("cannot move order %d from %s to %s", o.OrderNumber, o.Status, target)
	}

	previous := o.Status
	now := time.Now()
	o.Status = target
	switch target {
	case OrderStatusCompleted:
		o.CompletedAt = &now
		o.AddDomainEvent(NewOrderCompletedEvent(o))
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.AddDomainEvent(NewOrderCancelledEvent(o, previous))
	}
	o.IncrementVersion()
	return nil
}

// ReplaceItems swaps the item set and total in place
func (o *Order) ReplaceItems(items LineItems, total decimal.Decimal) error {
	if o.Status == OrderStatusCancelled {
		return shared.NewInvalidStateError("order %d is cancelled and its items cannot change", o.OrderNumber)
	}
	if err := items.Validate(); err != nil {
		return err
	}
	if total.IsNegative() {
		return shared.NewValidationError("order total cannot be negative")
	}
	o.Items = items
	o.Total = total
	o.IncrementVersion()
	return nil
}

// MarkStockApplied records that the items were taken from stock.
// Returns false when stock was already applied, so callers decrement at most once.
func (o *Order) MarkStockApplied() bool {
	if o.StockApplied {
		return false
	}
	o.StockApplied = true
	return true
}

// MarkStockRestored records that the items were returned to stock.
// Returns false when there was nothing to restore.
func (o *Order) MarkStockRestored() bool {
	if !o.StockApplied {
		return false
	}
	o.StockApplied = false
	return true
}
