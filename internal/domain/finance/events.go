package finance

import (
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableCreatedEvent is raised when a receivable is registered
type ReceivableCreatedEvent struct {
	shared.BaseDomainEvent
	ReceivableID     uuid.UUID       `json:"receivable_id"`
	ReceivableNumber int64           `json:"receivable_number"`
	OrderID          *uuid.UUID      `json:"order_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *ReceivableCreatedEvent) EventType() string {
	return "ReceivableCreated"
}

// NewReceivableCreatedEvent creates a new ReceivableCreatedEvent
func NewReceivableCreatedEvent(r *Receivable) *ReceivableCreatedEvent {
	return &ReceivableCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ReceivableCreated", "Receivable", r.ID, r.TenantID),
		ReceivableID:     r.ID,
		ReceivableNumber: r.ReceivableNumber,
		OrderID:          r.OrderID,
		Amount:           r.Amount,
	}
}

// ReceivablePaidEvent is raised when a receivable reaches paid
type ReceivablePaidEvent struct {
	shared.BaseDomainEvent
	ReceivableID     uuid.UUID       `json:"receivable_id"`
	ReceivableNumber int64           `json:"receivable_number"`
	OrderID          *uuid.UUID      `json:"order_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	PaidAt           time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *ReceivablePaidEvent) EventType() string {
	return "ReceivablePaid"
}

// NewReceivablePaidEvent creates a new ReceivablePaidEvent
func NewReceivablePaidEvent(r *Receivable) *ReceivablePaidEvent {
	paidAt := time.Now()
	if r.PaidAt != nil {
		paidAt = *r.PaidAt
	}
	return &ReceivablePaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ReceivablePaid", "Receivable", r.ID, r.TenantID),
		ReceivableID:     r.ID,
		ReceivableNumber: r.ReceivableNumber,
		OrderID:          r.OrderID,
		Amount:           r.Amount,
		PaidAt:           paidAt,
	}
}

// ReceivableCancelledEvent is raised when a receivable is cancelled
type ReceivableCancelledEvent struct {
	shared.BaseDomainEvent
	ReceivableID     uuid.UUID  `json:"receivable_id"`
	ReceivableNumber int64      `json:"receivable_number"`
	OrderID          *uuid.UUID `json:"order_id,omitempty"`
}

// EventType returns the event type name
func (e *ReceivableCancelledEvent) EventType() string {
	return "ReceivableCancelled"
}

// NewReceivableCancelledEvent creates a new ReceivableCancelledEvent
func NewReceivableCancelledEvent(r *Receivable) *ReceivableCancelledEvent {
	return &ReceivableCancelledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ReceivableCancelled", "Receivable", r.ID, r.TenantID),
		ReceivableID:     r.ID,
		ReceivableNumber: r.ReceivableNumber,
		OrderID:          r.OrderID,
	}
}

// PaymentRecordedEvent is raised for every accepted installment, receivable or payable
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Ledger    string          `json:"ledger"`
	PaymentID uuid.UUID       `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return "PaymentRecorded"
}

// Ledgers carried by PaymentRecordedEvent
const (
	LedgerReceivable = "receivable"
	LedgerPayable    = "payable"
)

// NewReceivablePaymentRecordedEvent creates a PaymentRecordedEvent for a receivable
func NewReceivablePaymentRecordedEvent(r *Receivable, p *Payment, totalPaid decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "Receivable", r.ID, r.TenantID),
		Ledger:          LedgerReceivable,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		TotalPaid:       totalPaid,
	}
}

// NewPayablePaymentRecordedEvent creates a PaymentRecordedEvent for a payable
func NewPayablePaymentRecordedEvent(pb *Payable, p *PayablePayment, totalPaid decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "Payable", pb.ID, pb.TenantID),
		Ledger:          LedgerPayable,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		TotalPaid:       totalPaid,
	}
}

// PayableCreatedEvent is raised when a payable is registered
type PayableCreatedEvent struct {
	shared.BaseDomainEvent
	PayableID     uuid.UUID       `json:"payable_id"`
	PayableNumber int64           `json:"payable_number"`
	SupplierName  string          `json:"supplier_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *PayableCreatedEvent) EventType() string {
	return "PayableCreated"
}

// NewPayableCreatedEvent creates a new PayableCreatedEvent
func NewPayableCreatedEvent(p *Payable) *PayableCreatedEvent {
	return &PayableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayableCreated", "Payable", p.ID, p.TenantID),
		PayableID:       p.ID,
		PayableNumber:   p.PayableNumber,
		SupplierName:    p.SupplierName,
		Amount:          p.Amount,
	}
}

// PayablePaidEvent is raised when a payable reaches paid
type PayablePaidEvent struct {
	shared.BaseDomainEvent
	PayableID     uuid.UUID       `json:"payable_id"`
	PayableNumber int64           `json:"payable_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *PayablePaidEvent) EventType() string {
	return "PayablePaid"
}

// NewPayablePaidEvent creates a new PayablePaidEvent
func NewPayablePaidEvent(p *Payable) *PayablePaidEvent {
	return &PayablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayablePaid", "Payable", p.ID, p.TenantID),
		PayableID:       p.ID,
		PayableNumber:   p.PayableNumber,
		Amount:          p.Amount,
	}
}
