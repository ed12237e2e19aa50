package trade

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a point-of-sale transaction
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusRefunded  SaleStatus = "refunded"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// SaleItem is a point-of-sale line, already resolved to a concrete combination
type SaleItem struct {
	ProductID     uuid.UUID       `json:"product_id"`
	CombinationID *string         `json:"combination_id,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// Label names the item in error messages
func (i SaleItem) Label() string {
	if i.CombinationID != nil && *i.CombinationID != "" {
		return fmt.Sprintf("product %s (combination %s)", i.ProductID, *i.CombinationID)
	}
	return fmt.Sprintf("product %s", i.ProductID)
}

// SaleItems is the JSON-encoded item list stored on sale rows
type SaleItems []SaleItem

// Validate checks every line has a product and a positive quantity
func (items SaleItems) Validate() error {
	if len(items) == 0 {
		return shared.NewValidationError("at least one item is required")
	}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return shared.NewValidationError("item %d: product id is required", i+1)
		}
		if item.Quantity <= 0 {
			return shared.NewValidationError("item %d: quantity must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewValidationError("item %d: unit price cannot be negative", i+1)
		}
	}
	return nil
}

// LineItems converts sale lines to stock ledger lines
func (items SaleItems) LineItems() LineItems {
	out := make(LineItems, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			CombinationID: item.CombinationID,
		})
	}
	return out
}

// Value implements driver.Valuer for database storage
func (items SaleItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (items *SaleItems) Scan(value any) error {
	return scanJSON(value, items)
}

// Sale is an immediate, already-paid point-of-sale transaction
type Sale struct {
	shared.TenantAggregateRoot
	SaleNumber int64
	ClientID   *uuid.UUID
	Items      SaleItems
	Total      decimal.Decimal
	Status     SaleStatus
	ReversedAt *time.Time
	ReversedBy *uuid.UUID
}

// NewSale creates a completed sale
func NewSale(tenantID uuid.UUID, saleNumber int64, clientID *uuid.UUID, items SaleItems, total decimal.Decimal) (*Sale, error) {
	if err := items.Validate(); err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, shared.NewValidationError("sale total cannot be negative")
	}
	if saleNumber <= 0 {
		return nil, shared.NewValidationError("sale number must be positive")
	}

	sale := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleNumber:          saleNumber,
		ClientID:            clientID,
		Items:               items,
		Total:               total,
		Status:              SaleStatusCompleted,
	}
	sale.AddDomainEvent(NewSaleCreatedEvent(sale))
	return sale, nil
}

// Refund marks a completed sale as refunded
func (s *Sale) Refund(actorID uuid.UUID) error {
	return s.reverse(SaleStatusRefunded, actorID)
}

// Cancel marks a completed sale as cancelled
func (s *Sale) Cancel(actorID uuid.UUID) error {
	return s.reverse(SaleStatusCancelled, actorID)
}

func (s *Sale) reverse(target SaleStatus, actorID uuid.UUID) error {
	if s.Status != SaleStatusCompleted {
		return shared.NewInvalidStateError("sale %d is %s; only completed sales can be %s", s.SaleNumber, s.Status, target)
	}
	now := time.Now()
	s.Status = target
	s.ReversedAt = &now
	if actorID != uuid.Nil {
		s.ReversedBy = &actorID
	}
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleReversedEvent(s))
	return nil
}
