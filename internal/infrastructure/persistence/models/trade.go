package models

import (
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	TenantAggregateModel
	OrderNumber  int64             `gorm:"not null"`
	ClientID     *uuid.UUID        `gorm:"type:uuid;index"`
	Items        trade.LineItems   `gorm:"type:jsonb;not null"`
	Total        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status       trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes        string            `gorm:"type:text"`
	StockApplied bool              `gorm:"not null;default:false"`
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		OrderNumber:  m.OrderNumber,
		ClientID:     m.ClientID,
		Items:        m.Items,
		Total:        m.Total,
		Status:       m.Status,
		Notes:        m.Notes,
		StockApplied: m.StockApplied,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
	}
	o.TenantAggregateRoot = m.toRoot()
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.fromRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.ClientID = o.ClientID
	m.Items = o.Items
	m.Total = o.Total
	m.Status = o.Status
	m.Notes = o.Notes
	m.StockApplied = o.StockApplied
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// SaleModel is the persistence model for the Sale aggregate
type SaleModel struct {
	TenantAggregateModel
	SaleNumber int64            `gorm:"not null"`
	ClientID   *uuid.UUID       `gorm:"type:uuid;index"`
	Items      trade.SaleItems  `gorm:"type:jsonb;not null"`
	Total      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status     trade.SaleStatus `gorm:"type:varchar(20);not null;default:'completed';index"`
	ReversedAt *time.Time
	ReversedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *trade.Sale {
	s := &trade.Sale{
		SaleNumber: m.SaleNumber,
		ClientID:   m.ClientID,
		Items:      m.Items,
		Total:      m.Total,
		Status:     m.Status,
		ReversedAt: m.ReversedAt,
		ReversedBy: m.ReversedBy,
	}
	s.TenantAggregateRoot = m.toRoot()
	return s
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.fromRoot(s.TenantAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.ClientID = s.ClientID
	m.Items = s.Items
	m.Total = s.Total
	m.Status = s.Status
	m.ReversedAt = s.ReversedAt
	m.ReversedBy = s.ReversedBy
}

// SaleModelFromDomain creates a new persistence model from a domain Sale
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}
