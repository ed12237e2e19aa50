package finance

import (
	"strings"
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the status of money the store owes a supplier
type PayableStatus string

const (
	PayableStatusPending   PayableStatus = "pending"
	PayableStatusPaid      PayableStatus = "paid"
	PayableStatusCancelled PayableStatus = "cancelled"
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	return s == PayableStatusPending || s == PayableStatusPaid || s == PayableStatusCancelled
}

// Payable mirrors Receivable for supplier debts. It never moves stock.
type Payable struct {
	shared.TenantAggregateRoot
	PayableNumber int64
	SupplierName  string
	Amount        decimal.Decimal
	Description   string
	Status        PayableStatus
	DueDate       *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
}

// NewPayable creates a pending payable
func NewPayable(tenantID uuid.UUID, payableNumber int64, supplierName string, amount decimal.Decimal, description string, dueDate *time.Time) (*Payable, error) {
	supplierName = strings.TrimSpace(supplierName)
	if supplierName == "" {
		return nil, shared.NewValidationError("supplier name is required")
	}
	if payableNumber <= 0 {
		return nil, shared.NewValidationError("payable number must be positive")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("payable amount must be greater than zero")
	}

	p := &Payable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayableNumber:       payableNumber,
		SupplierName:        supplierName,
		Amount:              amount,
		Description:         strings.TrimSpace(description),
		Status:              PayableStatusPending,
		DueDate:             dueDate,
	}
	p.AddDomainEvent(NewPayableCreatedEvent(p))
	return p, nil
}

// SettleIfCovered marks the payable paid when totalPaid reaches the amount
func (p *Payable) SettleIfCovered(totalPaid decimal.Decimal) bool {
	if p.Status != PayableStatusPending || totalPaid.LessThan(p.Amount) {
		return false
	}
	now := time.Now()
	p.Status = PayableStatusPaid
	p.PaidAt = &now
	p.IncrementVersion()
	p.AddDomainEvent(NewPayablePaidEvent(p))
	return true
}

// Cancel moves a pending payable to cancelled
func (p *Payable) Cancel() error {
	if p.Status != PayableStatusPending {
		return shared.NewInvalidStateError("payable %d is %s and cannot be cancelled", p.PayableNumber, p.Status)
	}
	now := time.Now()
	p.Status = PayableStatusCancelled
	p.CancelledAt = &now
	p.IncrementVersion()
	return nil
}

// PayablePayment is an append-only installment against a payable
type PayablePayment struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	PayableID      uuid.UUID
	Amount         decimal.Decimal
	Notes          string
	IdempotencyKey string
	CreatedBy      *uuid.UUID
	CreatedAt      time.Time
}

// NewPayablePayment creates a payment; the amount must be positive
func NewPayablePayment(tenantID, payableID uuid.UUID, amount decimal.Decimal, notes string, actorID uuid.UUID) (*PayablePayment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be greater than zero")
	}
	p := &PayablePayment{
		ID:        uuid.New(),
		TenantID:  tenantID,
		PayableID: payableID,
		Amount:    amount,
		Notes:     strings.TrimSpace(notes),
		CreatedAt: time.Now(),
	}
	if actorID != uuid.Nil {
		p.CreatedBy = &actorID
	}
	return p, nil
}

// TotalPayablePaid sums the payments of one payable
func TotalPayablePaid(payments []PayablePayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
