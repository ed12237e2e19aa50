package finance

import (
	"strings"
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an append-only installment against a receivable.
// Paid-to-date is always derived by summing payments.
type Payment struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ReceivableID   uuid.UUID
	Amount         decimal.Decimal
	Notes          string
	IdempotencyKey string
	CreatedBy      *uuid.UUID
	CreatedAt      time.Time
}

// NewPayment creates a payment; the amount must be positive
func NewPayment(tenantID, receivableID uuid.UUID, amount decimal.Decimal, notes string, actorID uuid.UUID) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be greater than zero")
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > 500 {
		return nil, shared.NewValidationError("notes cannot exceed 500 characters")
	}
	p := &Payment{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ReceivableID: receivableID,
		Amount:       amount,
		Notes:        notes,
		CreatedAt:    time.Now(),
	}
	if actorID != uuid.Nil {
		p.CreatedBy = &actorID
	}
	return p, nil
}

// TotalPaid sums the payments of one receivable
func TotalPaid(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
