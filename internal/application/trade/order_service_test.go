package trade_test

import (
	"context"
	"testing"

	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence"
	"github.com/atelierpoz/backoffice/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderService(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	events := testutil.NewRecordingPublisher()
	svc := tradeapp.NewOrderService(persistence.NewGormTransactionScope(db), persistence.NewGormOrderRepository(db), zap.NewNop())
	svc.SetEventPublisher(events)

	items := trade.LineItems{{ProductID: uuid.New(), Quantity: 2}}
	first, err := svc.CreateOrder(ctx, tenantID, tradeapp.CreateOrderRequest{Items: items, Total: decimal.NewFromInt(20), Notes: "  gift wrap "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.OrderNumber)
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "gift wrap", first.Notes)
	assert.False(t, first.StockApplied)

	second, err := svc.CreateOrder(ctx, tenantID, tradeapp.CreateOrderRequest{Items: items, Total: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.OrderNumber)

	other, err := svc.CreateOrder(ctx, uuid.New(), tradeapp.CreateOrderRequest{Items: items, Total: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.OrderNumber, "numbering is per store")

	_, err = svc.CreateOrder(ctx, tenantID, tradeapp.CreateOrderRequest{Total: decimal.NewFromInt(1)})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	got, err := svc.GetOrder(ctx, tenantID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, got.OrderNumber)

	list, total, err := svc.ListOrders(ctx, tenantID, shared.Filter{Page: 1, PageSize: 10, Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	_, _, err = svc.ListOrders(ctx, tenantID, shared.Filter{Status: "shipped"})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	assert.Equal(t, 3, events.Count("OrderCreated"))
}
