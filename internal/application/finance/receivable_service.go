package finance

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceivableService serves receivable reads. Writes that can touch orders or
// stock go through the fulfillment synchronizer.
type ReceivableService struct {
	receivables finance.ReceivableRepository
	payments    finance.PaymentRepository
	logs        finance.ReceivableLogRepository
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(
	receivables finance.ReceivableRepository,
	payments finance.PaymentRepository,
	logs finance.ReceivableLogRepository,
) *ReceivableService {
	return &ReceivableService{receivables: receivables, payments: payments, logs: logs}
}

// GetReceivable returns a receivable with its payments
func (s *ReceivableService) GetReceivable(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResult, error) {
	r, err := s.receivables.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByReceivable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	outcome := &ReceivableOutcome{Receivable: r, Payments: payments, TotalPaid: finance.TotalPaid(payments)}
	return outcome.ToResult(false), nil
}

// ListReceivables lists receivables of a store
func (s *ReceivableService) ListReceivables(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReceivableResponse, int64, error) {
	if filter.Status != "" && !finance.ReceivableStatus(filter.Status).IsValid() {
		return nil, 0, shared.NewValidationError("unknown receivable status %q", filter.Status)
	}
	rows, total, err := s.receivables.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReceivableResponse, len(rows))
	for i := range rows {
		out[i] = ToReceivableResponse(&rows[i])
	}
	return out, total, nil
}

// ListReceivableLogs returns the audit trail of a receivable, oldest first
func (s *ReceivableService) ListReceivableLogs(ctx context.Context, tenantID, id uuid.UUID) ([]ReceivableLogResponse, error) {
	if _, err := s.receivables.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	entries, err := s.logs.ListByReceivable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := make([]ReceivableLogResponse, len(entries))
	for i, e := range entries {
		out[i] = ReceivableLogResponse{
			ID:            e.ID,
			Action:        string(e.Action),
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
			Notes:         e.Notes,
			ActorID:       e.ActorID,
			CreatedAt:     e.CreatedAt,
		}
	}
	return out, nil
}
