package telemetry

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
)

// MetricsEventHandler turns committed domain events into business counters
type MetricsEventHandler struct {
	metrics *BusinessMetrics
}

// NewMetricsEventHandler creates a handler backed by metrics
func NewMetricsEventHandler(metrics *BusinessMetrics) *MetricsEventHandler {
	return &MetricsEventHandler{metrics: metrics}
}

// EventTypes returns the events this handler counts
func (h *MetricsEventHandler) EventTypes() []string {
	return []string{
		trade.EventTypeSaleCreated,
		trade.EventTypeSaleReversed,
		trade.EventTypeOrderCompleted,
		trade.EventTypeOrderCancelled,
		"ReceivableCreated",
		"ReceivablePaid",
		"PaymentRecorded",
	}
}

// Handle increments the counter matching the event
func (h *MetricsEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	m := h.metrics
	tenant := AttrTenantID.String(event.TenantID().String())

	switch e := event.(type) {
	case *trade.SaleCreatedEvent:
		m.salesCreated.Inc(ctx, tenant)
	case *trade.SaleReversedEvent:
		m.salesReversed.Inc(ctx, tenant, AttrSaleStatus.String(string(e.Status)))
	case *trade.OrderCompletedEvent:
		m.ordersCompleted.Inc(ctx, tenant)
	case *trade.OrderCancelledEvent:
		m.ordersCancelled.Inc(ctx, tenant)
	case *finance.ReceivableCreatedEvent:
		m.receivablesCreated.Inc(ctx, tenant)
	case *finance.ReceivablePaidEvent:
		m.receivablesPaid.Inc(ctx, tenant)
	case *finance.PaymentRecordedEvent:
		m.paymentsRecorded.Inc(ctx, tenant, AttrLedger.String(e.Ledger))
	}
	return nil
}

var _ shared.EventHandler = (*MetricsEventHandler)(nil)
