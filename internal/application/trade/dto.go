package trade

import (
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a product with its stock buckets
type ProductResponse struct {
	ID           uuid.UUID            `json:"id"`
	SKU          string               `json:"sku"`
	Name         string               `json:"name"`
	Price        decimal.Decimal      `json:"price"`
	Stock        int                  `json:"stock"`
	Attributes   catalog.Attributes   `json:"attributes"`
	Combinations catalog.Combinations `json:"combinations"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToProductResponse converts a domain Product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Price:        p.Price,
		Stock:        p.Stock,
		Attributes:   p.Attributes,
		Combinations: p.Combinations,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CreateProductRequest registers a product with its stock structure
type CreateProductRequest struct {
	SKU          string
	Name         string
	Price        decimal.Decimal
	Stock        int
	Attributes   catalog.Attributes
	Combinations catalog.Combinations
	ActorID      uuid.UUID
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  int64           `json:"order_number"`
	ClientID     *uuid.UUID      `json:"client_id,omitempty"`
	Items        trade.LineItems `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	StockApplied bool            `json:"stock_applied"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToOrderResponse converts a domain Order
func ToOrderResponse(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		ClientID:     o.ClientID,
		Items:        o.Items,
		Total:        o.Total,
		Status:       string(o.Status),
		Notes:        o.Notes,
		StockApplied: o.StockApplied,
		CompletedAt:  o.CompletedAt,
		CancelledAt:  o.CancelledAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// CreateOrderRequest opens a pending order
type CreateOrderRequest struct {
	ClientID *uuid.UUID
	Items    trade.LineItems
	Total    decimal.Decimal
	Notes    string
	ActorID  uuid.UUID
}

// SaleResponse represents a point-of-sale transaction
type SaleResponse struct {
	ID         uuid.UUID       `json:"id"`
	SaleNumber int64           `json:"sale_number"`
	ClientID   *uuid.UUID      `json:"client_id,omitempty"`
	Items      trade.SaleItems `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	ReversedAt *time.Time      `json:"reversed_at,omitempty"`
	ReversedBy *uuid.UUID      `json:"reversed_by,omitempty"`
	CreatedBy  *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToSaleResponse converts a domain Sale
func ToSaleResponse(s *trade.Sale) SaleResponse {
	return SaleResponse{
		ID:         s.ID,
		SaleNumber: s.SaleNumber,
		ClientID:   s.ClientID,
		Items:      s.Items,
		Total:      s.Total,
		Status:     string(s.Status),
		ReversedAt: s.ReversedAt,
		ReversedBy: s.ReversedBy,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

// CreateSaleRequest commits a point-of-sale transaction. A zero Total is
// replaced by the sum of quantity times unit price.
type CreateSaleRequest struct {
	ClientID  *uuid.UUID
	Items     trade.SaleItems
	Total     decimal.Decimal
	CreatedBy uuid.UUID
}
