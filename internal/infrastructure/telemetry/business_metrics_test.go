package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/finance"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMetrics(t *testing.T) *telemetry.BusinessMetrics {
	t.Helper()
	m, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  noop.NewMeterProvider().Meter("test"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return m
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("nil meter", func(t *testing.T) {
		m, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{})
		assert.Nil(t, m)
		assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	})

	t.Run("nil logger falls back to nop", func(t *testing.T) {
		m, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter: noop.NewMeterProvider().Meter("test"),
		})
		require.NoError(t, err)
		assert.NotNil(t, m)
	})
}

func TestBusinessMetrics_Record(t *testing.T) {
	m := newTestMetrics(t)
	ctx := context.Background()
	tenant := uuid.New()

	assert.NotPanics(t, func() {
		m.RecordStockMovement(ctx, tenant, catalog.StockMovement{
			Bucket:   catalog.BucketCombination,
			Sign:     catalog.StockDecrement,
			Quantity: 3,
		})
		m.RecordStockAdjustFailure(ctx, tenant, "order")
		m.RecordSaleCommit(ctx, tenant, 12*time.Millisecond)
	})
}

func TestMetricsEventHandler(t *testing.T) {
	h := telemetry.NewMetricsEventHandler(newTestMetrics(t))
	ctx := context.Background()
	tenant := uuid.New()

	assert.Contains(t, h.EventTypes(), trade.EventTypeSaleCreated)
	assert.Contains(t, h.EventTypes(), "PaymentRecorded")

	order, err := trade.NewOrder(tenant, 1, nil, trade.LineItems{{ProductID: uuid.New(), Quantity: 1}}, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, order.TransitionTo(trade.OrderStatusCompleted))

	r, err := finance.NewReceivable(tenant, 1, decimal.NewFromInt(10), &order.ID, nil, "")
	require.NoError(t, err)
	p, err := finance.NewPayment(tenant, r.ID, decimal.NewFromInt(10), "", uuid.New())
	require.NoError(t, err)

	events := append(order.GetDomainEvents(), r.GetDomainEvents()...)
	events = append(events, finance.NewReceivablePaymentRecordedEvent(r, p, p.Amount))
	for _, e := range events {
		assert.NoError(t, h.Handle(ctx, e))
	}
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestMetricsEventHandler_CountsSales(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	m, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: provider.Meter("test")})
	require.NoError(t, err)
	h := telemetry.NewMetricsEventHandler(m)

	tenant := uuid.New()
	for i := 1; i <= 2; i++ {
		sale, err := trade.NewSale(tenant, int64(i), nil,
			trade.SaleItems{{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
			decimal.NewFromInt(5))
		require.NoError(t, err)
		for _, e := range sale.PullDomainEvents() {
			require.NoError(t, h.Handle(ctx, e))
		}
	}
	m.RecordStockMovement(ctx, tenant, catalog.StockMovement{Bucket: catalog.BucketProduct, Sign: catalog.StockDecrement, Quantity: 4})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(2), sumOf(t, rm, "backoffice_sales_created_total"))
	assert.Equal(t, int64(1), sumOf(t, rm, "backoffice_stock_movements_total"))
	assert.Equal(t, int64(4), sumOf(t, rm, "backoffice_stock_units_total"))
}
