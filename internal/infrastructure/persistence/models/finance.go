package models

import (
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableModel is the persistence model for the Receivable aggregate
type ReceivableModel struct {
	TenantAggregateModel
	ReceivableNumber int64                    `gorm:"not null"`
	OrderID          *uuid.UUID               `gorm:"type:uuid"`
	ClientID         *uuid.UUID               `gorm:"type:uuid;index"`
	Amount           decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Description      string                   `gorm:"type:varchar(500)"`
	Status           finance.ReceivableStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidAt           *time.Time
	CancelledAt      *time.Time
}

// TableName returns the table name for GORM
func (ReceivableModel) TableName() string {
	return "receivables"
}

// ToDomain converts the persistence model to a domain Receivable
func (m *ReceivableModel) ToDomain() *finance.Receivable {
	r := &finance.Receivable{
		ReceivableNumber: m.ReceivableNumber,
		OrderID:          m.OrderID,
		ClientID:         m.ClientID,
		Amount:           m.Amount,
		Description:      m.Description,
		Status:           m.Status,
		PaidAt:           m.PaidAt,
		CancelledAt:      m.CancelledAt,
	}
	r.TenantAggregateRoot = m.toRoot()
	return r
}

// FromDomain populates the persistence model from a domain Receivable
func (m *ReceivableModel) FromDomain(r *finance.Receivable) {
	m.fromRoot(r.TenantAggregateRoot)
	m.ReceivableNumber = r.ReceivableNumber
	m.OrderID = r.OrderID
	m.ClientID = r.ClientID
	m.Amount = r.Amount
	m.Description = r.Description
	m.Status = r.Status
	m.PaidAt = r.PaidAt
	m.CancelledAt = r.CancelledAt
}

// ReceivableModelFromDomain creates a new persistence model from a domain Receivable
func ReceivableModelFromDomain(r *finance.Receivable) *ReceivableModel {
	m := &ReceivableModel{}
	m.FromDomain(r)
	return m
}

// PaymentModel is one installment against a receivable
type PaymentModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceivableID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes          string          `gorm:"type:text"`
	IdempotencyKey string          `gorm:"type:varchar(128)"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "receivable_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() finance.Payment {
	return finance.Payment{
		ID:             m.ID,
		TenantID:       m.TenantID,
		ReceivableID:   m.ReceivableID,
		Amount:         m.Amount,
		Notes:          m.Notes,
		IdempotencyKey: m.IdempotencyKey,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	return &PaymentModel{
		ID:             p.ID,
		TenantID:       p.TenantID,
		ReceivableID:   p.ReceivableID,
		Amount:         p.Amount,
		Notes:          p.Notes,
		IdempotencyKey: p.IdempotencyKey,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
	}
}

// ReceivableLogModel is one audit entry on a receivable
type ReceivableLogModel struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	ReceivableID  uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Action        finance.ReceivableLogAction `gorm:"type:varchar(32);not null"`
	PreviousValue string                      `gorm:"type:varchar(100)"`
	NewValue      string                      `gorm:"type:varchar(100)"`
	Notes         string                      `gorm:"type:text"`
	ActorID       *uuid.UUID                  `gorm:"type:uuid"`
	CreatedAt     time.Time                   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceivableLogModel) TableName() string {
	return "receivable_logs"
}

// ToDomain converts the persistence model to a domain ReceivableLog
func (m *ReceivableLogModel) ToDomain() finance.ReceivableLog {
	return finance.ReceivableLog{
		ID:            m.ID,
		TenantID:      m.TenantID,
		ReceivableID:  m.ReceivableID,
		Action:        m.Action,
		PreviousValue: m.PreviousValue,
		NewValue:      m.NewValue,
		Notes:         m.Notes,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}

// ReceivableLogModelFromDomain creates a new persistence model from a domain ReceivableLog
func ReceivableLogModelFromDomain(l *finance.ReceivableLog) *ReceivableLogModel {
	return &ReceivableLogModel{
		ID:            l.ID,
		TenantID:      l.TenantID,
		ReceivableID:  l.ReceivableID,
		Action:        l.Action,
		PreviousValue: l.PreviousValue,
		NewValue:      l.NewValue,
		Notes:         l.Notes,
		ActorID:       l.ActorID,
		CreatedAt:     l.CreatedAt,
	}
}

// PayableModel is the persistence model for the Payable aggregate
type PayableModel struct {
	TenantAggregateModel
	PayableNumber int64                 `gorm:"not null"`
	SupplierName  string                `gorm:"type:varchar(200);not null"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Description   string                `gorm:"type:varchar(500)"`
	Status        finance.PayableStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	DueDate       *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (PayableModel) TableName() string {
	return "payables"
}

// ToDomain converts the persistence model to a domain Payable
func (m *PayableModel) ToDomain() *finance.Payable {
	p := &finance.Payable{
		PayableNumber: m.PayableNumber,
		SupplierName:  m.SupplierName,
		Amount:        m.Amount,
		Description:   m.Description,
		Status:        m.Status,
		DueDate:       m.DueDate,
		PaidAt:        m.PaidAt,
		CancelledAt:   m.CancelledAt,
	}
	p.TenantAggregateRoot = m.toRoot()
	return p
}

// FromDomain populates the persistence model from a domain Payable
func (m *PayableModel) FromDomain(p *finance.Payable) {
	m.fromRoot(p.TenantAggregateRoot)
	m.PayableNumber = p.PayableNumber
	m.SupplierName = p.SupplierName
	m.Amount = p.Amount
	m.Description = p.Description
	m.Status = p.Status
	m.DueDate = p.DueDate
	m.PaidAt = p.PaidAt
	m.CancelledAt = p.CancelledAt
}

// PayableModelFromDomain creates a new persistence model from a domain Payable
func PayableModelFromDomain(p *finance.Payable) *PayableModel {
	m := &PayableModel{}
	m.FromDomain(p)
	return m
}

// PayablePaymentModel is one installment against a payable
type PayablePaymentModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PayableID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes          string          `gorm:"type:text"`
	IdempotencyKey string          `gorm:"type:varchar(128)"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayablePaymentModel) TableName() string {
	return "payable_payments"
}

// ToDomain converts the persistence model to a domain PayablePayment
func (m *PayablePaymentModel) ToDomain() finance.PayablePayment {
	return finance.PayablePayment{
		ID:             m.ID,
		TenantID:       m.TenantID,
		PayableID:      m.PayableID,
		Amount:         m.Amount,
		Notes:          m.Notes,
		IdempotencyKey: m.IdempotencyKey,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// PayablePaymentModelFromDomain creates a new persistence model from a domain PayablePayment
func PayablePaymentModelFromDomain(p *finance.PayablePayment) *PayablePaymentModel {
	return &PayablePaymentModel{
		ID:             p.ID,
		TenantID:       p.TenantID,
		PayableID:      p.PayableID,
		Amount:         p.Amount,
		Notes:          p.Notes,
		IdempotencyKey: p.IdempotencyKey,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
	}
}
