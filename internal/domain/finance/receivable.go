package finance

import (
	"strings"
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the status of money a customer owes the store
type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "pending"
	ReceivableStatusPaid      ReceivableStatus = "paid"
	ReceivableStatusCancelled ReceivableStatus = "cancelled"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusPending, ReceivableStatusPaid, ReceivableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no status change is accepted anymore
func (s ReceivableStatus) IsTerminal() bool {
	return s == ReceivableStatusPaid || s == ReceivableStatusCancelled
}

// Receivable is money a customer owes the store, optionally for one order
type Receivable struct {
	shared.TenantAggregateRoot
	ReceivableNumber int64
	OrderID          *uuid.UUID // nil for manual receivables
	ClientID         *uuid.UUID
	Amount           decimal.Decimal
	Description      string
	Status           ReceivableStatus
	PaidAt           *time.Time
	CancelledAt      *time.Time
}

// NewReceivable creates a pending receivable
func NewReceivable(
	tenantID uuid.UUID,
	receivableNumber int64,
	amount decimal.Decimal,
	orderID *uuid.UUID,
	clientID *uuid.UUID,
	description string,
) (*Receivable, error) {
	if receivableNumber <= 0 {
		return nil, shared.NewValidationError("receivable number must be positive")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("receivable amount must be greater than zero")
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return nil, shared.NewValidationError("description cannot exceed 500 characters")
	}

	r := &Receivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceivableNumber:    receivableNumber,
		OrderID:             orderID,
		ClientID:            clientID,
		Amount:              amount,
		Description:         description,
		Status:              ReceivableStatusPending,
	}
	r.AddDomainEvent(NewReceivableCreatedEvent(r))
	return r, nil
}

// IsOrderLinked reports whether the receivable bills an order
func (r *Receivable) IsOrderLinked() bool {
	return r.OrderID != nil && *r.OrderID != uuid.Nil
}

// MarkPaid moves a pending receivable to paid and stamps PaidAt
func (r *Receivable) MarkPaid() error {
	if r.Status != ReceivableStatusPending {
		return shared.NewInvalidStateError("receivable %d is %s and cannot be marked paid", r.ReceivableNumber, r.Status)
	}
	now := time.Now()
	r.Status = ReceivableStatusPaid
	r.PaidAt = &now
	r.IncrementVersion()
	r.AddDomainEvent(NewReceivablePaidEvent(r))
	return nil
}

// Cancel moves a pending receivable to cancelled
func (r *Receivable) Cancel() error {
	if r.Status != ReceivableStatusPending {
		return shared.NewInvalidStateError("receivable %d is %s and cannot be cancelled", r.ReceivableNumber, r.Status)
	}
	now := time.Now()
	r.Status = ReceivableStatusCancelled
	r.CancelledAt = &now
	r.IncrementVersion()
	r.AddDomainEvent(NewReceivableCancelledEvent(r))
	return nil
}

// TransitionTo applies an explicit status change requested by an operator
func (r *Receivable) TransitionTo(target ReceivableStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("unknown receivable status %q", target)
	}
	switch target {
	case ReceivableStatusPaid:
		return r.MarkPaid()
	case ReceivableStatusCancelled:
		return r.Cancel()
	}
	return shared.NewInvalidStateError("receivable %d cannot move back to %s", r.ReceivableNumber, target)
}

// SettleIfCovered marks the receivable paid when totalPaid reaches the amount.
// It reports whether the transition happened.
func (r *Receivable) SettleIfCovered(totalPaid decimal.Decimal) (bool, error) {
	if r.Status != ReceivableStatusPending || totalPaid.LessThan(r.Amount) {
		return false, nil
	}
	if err := r.MarkPaid(); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateAmount changes the billed amount after an item edit and returns the previous value
func (r *Receivable) UpdateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	previous := r.Amount
	if r.Status == ReceivableStatusCancelled {
		return previous, shared.NewInvalidStateError("receivable %d is cancelled", r.ReceivableNumber)
	}
	if !amount.IsPositive() {
		return previous, shared.NewValidationError("receivable amount must be greater than zero")
	}
	r.Amount = amount
	r.IncrementVersion()
	return previous, nil
}
