package fulfillment_test

import (
	"context"
	"testing"
	"time"

	financeapp "github.com/atelierpoz/backoffice/internal/application/finance"
	"github.com/atelierpoz/backoffice/internal/application/fulfillment"
	"github.com/atelierpoz/backoffice/internal/application/inventory"
	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/infrastructure/cache"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence"
	"github.com/atelierpoz/backoffice/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStockMetrics struct {
	mock.Mock
}

func (m *mockStockMetrics) RecordStockMovement(ctx context.Context, tenantID uuid.UUID, mv catalog.StockMovement) {
	m.Called(ctx, tenantID, mv)
}

func (m *mockStockMetrics) RecordStockAdjustFailure(ctx context.Context, tenantID uuid.UUID, source string) {
	m.Called(ctx, tenantID, source)
}

type fixture struct {
	ctx         context.Context
	tenantID    uuid.UUID
	actorID     uuid.UUID
	sync        *fulfillment.Synchronizer
	ledger      *inventory.StockLedger
	orders      *tradeapp.OrderService
	receivables *financeapp.ReceivableService
	products    *persistence.GormProductRepository
	orderRepo   *persistence.GormOrderRepository
	events      *testutil.RecordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	logger := zap.NewNop()
	scope := persistence.NewGormTransactionScope(db)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	ledger := inventory.NewStockLedger(scope, logger)
	accumulator := financeapp.NewPaymentAccumulator(store, time.Hour, logger)
	events := testutil.NewRecordingPublisher()

	sync := fulfillment.NewSynchronizer(scope, accumulator, ledger, logger)
	sync.SetEventPublisher(events)
	orders := tradeapp.NewOrderService(scope, persistence.NewGormOrderRepository(db), logger)

	return &fixture{
		ctx:      context.Background(),
		tenantID: testutil.TestTenantID(),
		actorID:  testutil.TestUserID(),
		sync:     sync,
		ledger:   ledger,
		orders:   orders,
		receivables: financeapp.NewReceivableService(
			persistence.NewGormReceivableRepository(db),
			persistence.NewGormPaymentRepository(db),
			persistence.NewGormReceivableLogRepository(db),
		),
		products:  persistence.NewGormProductRepository(db),
		orderRepo: persistence.NewGormOrderRepository(db),
		events:    events,
	}
}

// redShirt creates a product with one combination color=red holding comboStock
func (f *fixture) redShirt(t *testing.T, stock, comboStock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(f.tenantID, "SHIRT-"+uuid.NewString()[:8], "Shirt", decimal.NewFromInt(5), stock)
	require.NoError(t, err)
	require.NoError(t, p.SetVariants(nil, catalog.Combinations{
		{ID: "red", Selections: map[string]string{"color": "red"}, Stock: comboStock},
	}))
	require.NoError(t, f.products.Create(f.ctx, p))
	return p
}

func (f *fixture) plainProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(f.tenantID, "PLAIN-"+uuid.NewString()[:8], "Plain", decimal.NewFromInt(10), stock)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(f.ctx, p))
	return p
}

func redLine(productID uuid.UUID, qty int) trade.LineItem {
	return trade.LineItem{
		ProductID:        productID,
		Quantity:         qty,
		SelectedVariants: catalog.Selections{{AttributeID: "color", VariantID: "red"}},
	}
}

func (f *fixture) createOrder(t *testing.T, total int64, items ...trade.LineItem) *tradeapp.OrderResponse {
	t.Helper()
	order, err := f.orders.CreateOrder(f.ctx, f.tenantID, tradeapp.CreateOrderRequest{
		Items:   items,
		Total:   decimal.NewFromInt(total),
		ActorID: f.actorID,
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) bill(t *testing.T, orderID uuid.UUID) *financeapp.ReceivableResponse {
	t.Helper()
	r, err := f.sync.CreateReceivableFromOrder(f.ctx, f.tenantID, orderID, fulfillment.CreateReceivableRequest{ActorID: f.actorID})
	require.NoError(t, err)
	return r
}

func (f *fixture) product(t *testing.T, id uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := f.products.FindByIDForTenant(f.ctx, f.tenantID, id)
	require.NoError(t, err)
	return p
}

func (f *fixture) comboStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	combo, ok := f.product(t, id).FindCombination("red")
	require.True(t, ok)
	return combo.Stock
}

func (f *fixture) order(t *testing.T, id uuid.UUID) *trade.Order {
	t.Helper()
	o, err := f.orderRepo.FindByIDForTenant(f.ctx, f.tenantID, id)
	require.NoError(t, err)
	return o
}
