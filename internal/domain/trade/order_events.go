package trade

import (
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderCompleted = "OrderCompleted"
	EventTypeOrderCancelled = "OrderCancelled"
)

// OrderCreatedEvent is raised when a new order is registered
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber int64           `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Total:           order.Total,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderCompletedEvent is raised when an order reaches completed, directly or
// through its receivable being paid
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber int64           `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Total:           order.Total,
	}
}

// EventType returns the event type name
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID   `json:"order_id"`
	OrderNumber    int64       `json:"order_number"`
	PreviousStatus OrderStatus `json:"previous_status"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, previous OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		PreviousStatus:  previous,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
