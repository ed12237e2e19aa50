package trade

import (
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeSale = "Sale"

const (
	EventTypeSaleCreated  = "SaleCreated"
	EventTypeSaleReversed = "SaleReversed"
)

// SaleCreatedEvent is raised when a point-of-sale transaction commits
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	SaleNumber int64           `json:"sale_number"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"item_count"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, sale.ID, sale.TenantID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		Total:           sale.Total,
		ItemCount:       len(sale.Items),
	}
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return EventTypeSaleCreated
}

// SaleReversedEvent is raised when a sale is refunded or cancelled
type SaleReversedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	SaleNumber int64           `json:"sale_number"`
	Status     SaleStatus      `json:"status"`
	Total      decimal.Decimal `json:"total"`
}

// NewSaleReversedEvent creates a new SaleReversedEvent
func NewSaleReversedEvent(sale *Sale) *SaleReversedEvent {
	return &SaleReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleReversed, AggregateTypeSale, sale.ID, sale.TenantID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		Status:          sale.Status,
		Total:           sale.Total,
	}
}

// EventType returns the event type name
func (e *SaleReversedEvent) EventType() string {
	return EventTypeSaleReversed
}
