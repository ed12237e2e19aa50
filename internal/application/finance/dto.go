package finance

import (
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableResponse represents a receivable in API responses
type ReceivableResponse struct {
	ID               uuid.UUID       `json:"id"`
	ReceivableNumber int64           `json:"receivable_number"`
	OrderID          *uuid.UUID      `json:"order_id,omitempty"`
	ClientID         *uuid.UUID      `json:"client_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToReceivableResponse converts a domain Receivable
func ToReceivableResponse(r *finance.Receivable) ReceivableResponse {
	return ReceivableResponse{
		ID:               r.ID,
		ReceivableNumber: r.ReceivableNumber,
		OrderID:          r.OrderID,
		ClientID:         r.ClientID,
		Amount:           r.Amount,
		Description:      r.Description,
		Status:           string(r.Status),
		PaidAt:           r.PaidAt,
		CancelledAt:      r.CancelledAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// PaymentResponse represents one installment
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes,omitempty"`
	CreatedBy *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToPaymentResponses converts receivable payments
func ToPaymentResponses(payments []finance.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = PaymentResponse{ID: p.ID, Amount: p.Amount, Notes: p.Notes, CreatedBy: p.CreatedBy, CreatedAt: p.CreatedAt}
	}
	return out
}

// PaymentResult is the receivable state after a payment
type PaymentResult struct {
	Receivable ReceivableResponse `json:"receivable"`
	Payments   []PaymentResponse  `json:"payments"`
	TotalPaid  decimal.Decimal    `json:"total_paid"`
	Remaining  decimal.Decimal    `json:"remaining"`
	// Duplicate is true when the idempotency key was already used and nothing was recorded
	Duplicate bool `json:"duplicate"`
}

// AddPaymentRequest carries one installment
type AddPaymentRequest struct {
	Amount         decimal.Decimal
	Notes          string
	IdempotencyKey string
	ActorID        uuid.UUID
}

// ReceivableLogResponse represents one audit entry
type ReceivableLogResponse struct {
	ID            uuid.UUID  `json:"id"`
	Action        string     `json:"action"`
	PreviousValue string     `json:"previous_value,omitempty"`
	NewValue      string     `json:"new_value,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PayableResponse represents a payable in API responses
type PayableResponse struct {
	ID            uuid.UUID       `json:"id"`
	PayableNumber int64           `json:"payable_number"`
	SupplierName  string          `json:"supplier_name"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToPayableResponse converts a domain Payable
func ToPayableResponse(p *finance.Payable) PayableResponse {
	return PayableResponse{
		ID:            p.ID,
		PayableNumber: p.PayableNumber,
		SupplierName:  p.SupplierName,
		Amount:        p.Amount,
		Description:   p.Description,
		Status:        string(p.Status),
		DueDate:       p.DueDate,
		PaidAt:        p.PaidAt,
		CancelledAt:   p.CancelledAt,
		CreatedAt:     p.CreatedAt,
	}
}

// PayablePaymentResult is the payable state after a payment
type PayablePaymentResult struct {
	Payable   PayableResponse `json:"payable"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining"`
	Duplicate bool            `json:"duplicate"`
}

// CreatePayableRequest registers money owed to a supplier
type CreatePayableRequest struct {
	SupplierName string
	Amount       decimal.Decimal
	Description  string
	DueDate      *time.Time
	ActorID      uuid.UUID
}

func remaining(amount, paid decimal.Decimal) decimal.Decimal {
	r := amount.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
