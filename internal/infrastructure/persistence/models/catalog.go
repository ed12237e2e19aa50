package models

import (
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	TenantAggregateModel
	SKU          string               `gorm:"column:sku;type:varchar(64);not null"`
	Name         string               `gorm:"type:varchar(200);not null"`
	Price        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Stock        int                  `gorm:"not null;default:0"`
	Attributes   catalog.Attributes   `gorm:"type:jsonb;not null"`
	Combinations catalog.Combinations `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		SKU:          m.SKU,
		Name:         m.Name,
		Price:        m.Price,
		Stock:        m.Stock,
		Attributes:   m.Attributes,
		Combinations: m.Combinations,
	}
	p.TenantAggregateRoot = m.toRoot()
	if p.Attributes == nil {
		p.Attributes = catalog.Attributes{}
	}
	if p.Combinations == nil {
		p.Combinations = catalog.Combinations{}
	}
	return p
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.fromRoot(p.TenantAggregateRoot)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Price = p.Price
	m.Stock = p.Stock
	m.Attributes = p.Attributes
	m.Combinations = p.Combinations
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
