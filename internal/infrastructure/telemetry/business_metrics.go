package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a nil meter is provided
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// BusinessMetrics holds the back-office counters and histograms
type BusinessMetrics struct {
	salesCreated        *Counter
	salesReversed       *Counter
	ordersCompleted     *Counter
	ordersCancelled     *Counter
	receivablesCreated  *Counter
	receivablesPaid     *Counter
	paymentsRecorded    *Counter
	stockMovements      *Counter
	stockUnits          *Counter
	stockAdjustFailures *Counter
	saleCommitDuration  *Histogram
	logger              *zap.Logger
}

// BusinessMetricsConfig holds configuration for BusinessMetrics
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics registers every business instrument on the meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &BusinessMetrics{logger: logger}

	counters := []struct {
		dst               **Counter
		name, description string
	}{
		{&m.salesCreated, "backoffice_sales_created_total", "Point-of-sale transactions committed"},
		{&m.salesReversed, "backoffice_sales_reversed_total", "Sales refunded or cancelled"},
		{&m.ordersCompleted, "backoffice_orders_completed_total", "Orders that reached completed"},
		{&m.ordersCancelled, "backoffice_orders_cancelled_total", "Orders that reached cancelled"},
		{&m.receivablesCreated, "backoffice_receivables_created_total", "Receivables registered"},
		{&m.receivablesPaid, "backoffice_receivables_paid_total", "Receivables settled"},
		{&m.paymentsRecorded, "backoffice_payments_recorded_total", "Payments recorded against a ledger"},
		{&m.stockMovements, "backoffice_stock_movements_total", "Stock lines adjusted"},
		{&m.stockUnits, "backoffice_stock_units_total", "Stock units moved"},
		{&m.stockAdjustFailures, "backoffice_stock_adjust_failures_total", "Post-commit stock adjustments that failed"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.description, "1")
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	h, err := NewHistogram(cfg.Meter, "backoffice_sale_commit_duration_seconds",
		"Duration of the sale commit transaction", "s", CommitDurationBuckets...)
	if err != nil {
		return nil, err
	}
	m.saleCommitDuration = h

	logger.Info("business metrics initialized")
	return m, nil
}

// RecordStockMovement counts one adjusted line and the units it moved
func (m *BusinessMetrics) RecordStockMovement(ctx context.Context, tenantID uuid.UUID, mv catalog.StockMovement) {
	attrs := []attribute.KeyValue{
		AttrTenantID.String(tenantID.String()),
		AttrDirection.String(mv.Sign.String()),
		AttrBucket.String(string(mv.Bucket)),
	}
	m.stockMovements.Inc(ctx, attrs...)
	m.stockUnits.Add(ctx, int64(mv.Quantity), attrs...)
}

// RecordStockAdjustFailure counts a stock adjustment that did not apply
func (m *BusinessMetrics) RecordStockAdjustFailure(ctx context.Context, tenantID uuid.UUID, source string) {
	m.stockAdjustFailures.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrSource.String(source),
	)
}

// RecordSaleCommit records how long the sale transaction took
func (m *BusinessMetrics) RecordSaleCommit(ctx context.Context, tenantID uuid.UUID, d time.Duration) {
	m.saleCommitDuration.RecordDuration(ctx, d, AttrTenantID.String(tenantID.String()))
}
