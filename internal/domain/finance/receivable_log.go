package finance

import (
	"time"

	"github.com/google/uuid"
)

// ReceivableLogAction names what happened to a receivable
type ReceivableLogAction string

const (
	LogActionCreated       ReceivableLogAction = "created"
	LogActionPaymentAdded  ReceivableLogAction = "payment_added"
	LogActionPaid          ReceivableLogAction = "paid"
	LogActionCancelled     ReceivableLogAction = "cancelled"
	LogActionAmountChanged ReceivableLogAction = "amount_changed"
)

// ReceivableLog is one audit trail entry
type ReceivableLog struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ReceivableID  uuid.UUID
	Action        ReceivableLogAction
	PreviousValue string
	NewValue      string
	Notes         string
	ActorID       *uuid.UUID
	CreatedAt     time.Time
}

// NewReceivableLog creates an audit entry for a receivable
func NewReceivableLog(r *Receivable, action ReceivableLogAction, previous, next, notes string, actorID uuid.UUID) *ReceivableLog {
	entry := &ReceivableLog{
		ID:            uuid.New(),
		TenantID:      r.TenantID,
		ReceivableID:  r.ID,
		Action:        action,
		PreviousValue: previous,
		NewValue:      next,
		Notes:         notes,
		CreatedAt:     time.Now(),
	}
	if actorID != uuid.Nil {
		entry.ActorID = &actorID
	}
	return entry
}
