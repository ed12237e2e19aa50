package router_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	financeapp "github.com/atelierpoz/backoffice/internal/application/finance"
	"github.com/atelierpoz/backoffice/internal/application/fulfillment"
	"github.com/atelierpoz/backoffice/internal/application/inventory"
	"github.com/atelierpoz/backoffice/internal/application/sequence"
	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/infrastructure/cache"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/handler"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/middleware"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/router"
	"github.com/atelierpoz/backoffice/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	engine  *gin.Engine
	headers map[string]string
	events  *testutil.RecordingPublisher
}

func newAPIFixture(t *testing.T, checks ...handler.HealthCheck) *apiFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()
	scope := persistence.NewGormTransactionScope(db)
	events := testutil.NewRecordingPublisher()

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	accumulator := financeapp.NewPaymentAccumulator(store, time.Hour, log)
	ledger := inventory.NewStockLedger(scope, log)

	sync := fulfillment.NewSynchronizer(scope, accumulator, ledger, log)
	sync.SetEventPublisher(events)
	orders := tradeapp.NewOrderService(scope, persistence.NewGormOrderRepository(db), log)
	orders.SetEventPublisher(events)
	sales := tradeapp.NewSaleService(scope, persistence.NewGormSaleRepository(db), ledger, log)
	sales.SetEventPublisher(events)
	payables := financeapp.NewPayableService(scope, persistence.NewGormPayableRepository(db), accumulator, log)
	payables.SetEventPublisher(events)
	receivables := financeapp.NewReceivableService(
		persistence.NewGormReceivableRepository(db),
		persistence.NewGormPaymentRepository(db),
		persistence.NewGormReceivableLogRepository(db),
	)

	engine := router.NewEngine(router.EngineConfig{
		MaxBodySize: 1 << 20,
		CORS:        middleware.DefaultCORSConfig(),
	}, router.Handlers{
		Health:      handler.NewHealthHandler(checks...),
		Products:    handler.NewProductHandler(tradeapp.NewProductService(scope, persistence.NewGormProductRepository(db))),
		Orders:      handler.NewOrderHandler(orders, sync),
		Receivables: handler.NewReceivableHandler(receivables, sync),
		Sales:       handler.NewSaleHandler(sales),
		Payables:    handler.NewPayableHandler(payables),
		Sequences:   handler.NewSequenceHandler(sequence.NewSequenceService(scope)),
	}, log)

	return &apiFixture{
		engine: engine,
		headers: map[string]string{
			middleware.TenantHeader: testutil.TestTenantID().String(),
			middleware.UserHeader:   testutil.TestUserID().String(),
		},
		events: events,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, extra ...string) int {
	t.Helper()
	return f.request(t, method, path, body, extra...).Code
}

func (f *apiFixture) request(t *testing.T, method, path string, body any, extra ...string) *httptest.ResponseRecorder {
	t.Helper()
	headers := make(map[string]string, len(f.headers)+len(extra)/2)
	for k, v := range f.headers {
		headers[k] = v
	}
	for i := 0; i+1 < len(extra); i += 2 {
		headers[extra[i]] = extra[i+1]
	}
	return testutil.PerformRequest(t, f.engine, method, path, body, headers)
}

// createShirt posts a product with a "red" combination and returns its id
func (f *apiFixture) createShirt(t *testing.T, stock, comboStock int) uuid.UUID {
	t.Helper()
	w := f.request(t, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":   "shirt-" + uuid.NewString()[:6],
		"name":  "Shirt",
		"price": "10.00",
		"stock": stock,
		"combinations": []map[string]any{
			{"id": "red", "selections": map[string]string{"color": "red"}, "stock": comboStock, "price_delta": "0"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.ResponseData[tradeapp.ProductResponse](t, w).ID
}

func TestAPI_Health(t *testing.T) {
	f := newAPIFixture(t,
		handler.HealthCheck{Name: "database", Check: func(context.Context) error { return nil }},
	)

	w := testutil.PerformRequest(t, f.engine, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = testutil.PerformRequest(t, f.engine, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newAPIFixture(t,
		handler.HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
	)
	w = testutil.PerformRequest(t, down.engine, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestAPI_RequiresStore(t *testing.T) {
	f := newAPIFixture(t)

	w := testutil.PerformRequest(t, f.engine, http.MethodGet, "/api/v1/orders", nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidTenant)
}

func TestAPI_BilledOrderPaidInFull(t *testing.T) {
	f := newAPIFixture(t)
	productID := f.createShirt(t, 5, 3)

	w := f.request(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"items": []map[string]any{{"product_id": productID, "quantity": 2, "combination_id": "red"}},
		"total": "20.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := testutil.ResponseData[tradeapp.OrderResponse](t, w)
	assert.Equal(t, int64(1), order.OrderNumber)
	assert.Equal(t, "pending", order.Status)

	w = f.request(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/receivable", order.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receivable := testutil.ResponseData[financeapp.ReceivableResponse](t, w)
	assert.True(t, decimal.NewFromInt(20).Equal(receivable.Amount))
	assert.Equal(t, "Order #1", receivable.Description)

	w = f.request(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%s", productID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	product := testutil.ResponseData[tradeapp.ProductResponse](t, w)
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, 1, product.Combinations[0].Stock)

	// billing twice is rejected
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/receivable", order.ID), nil))

	paymentPath := fmt.Sprintf("/api/v1/receivables/%s/payments", receivable.ID)
	w = f.request(t, http.MethodPost, paymentPath, map[string]any{"amount": "20.00"}, middleware.IdempotencyKeyHeader, "till-1-pay-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := testutil.ResponseData[financeapp.PaymentResult](t, w)
	assert.Equal(t, "paid", result.Receivable.Status)
	assert.True(t, result.Remaining.IsZero())
	assert.False(t, result.Duplicate)

	w = f.request(t, http.MethodPost, paymentPath, map[string]any{"amount": "20.00"}, middleware.IdempotencyKeyHeader, "till-1-pay-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replay := testutil.ResponseData[financeapp.PaymentResult](t, w)
	assert.True(t, replay.Duplicate)
	assert.Len(t, replay.Payments, 1)

	w = f.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", testutil.ResponseData[tradeapp.OrderResponse](t, w).Status)

	w = f.request(t, http.MethodGet, fmt.Sprintf("/api/v1/receivables/%s/logs", receivable.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := testutil.ResponseData[[]financeapp.ReceivableLogResponse](t, w)
	require.NotEmpty(t, logs)
	assert.Equal(t, "created", logs[0].Action)

	w = f.request(t, http.MethodGet, "/api/v1/sequences/order/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), testutil.ResponseData[sequence.NextNumberResponse](t, w).Next)
}

func TestAPI_SaleRejectedOnInsufficientStock(t *testing.T) {
	f := newAPIFixture(t)
	productID := f.createShirt(t, 10, 1)

	w := f.request(t, http.MethodPost, "/api/v1/sales", map[string]any{
		"items": []map[string]any{{"product_id": productID, "combination_id": "red", "quantity": 2, "unit_price": "10"}},
	})
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock)
	assert.Zero(t, f.events.Count("SaleCreated"))

	w = f.request(t, http.MethodPost, "/api/v1/sales", map[string]any{
		"items": []map[string]any{{"product_id": productID, "combination_id": "red", "quantity": 1, "unit_price": "10"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := testutil.ResponseData[tradeapp.SaleResponse](t, w)
	assert.True(t, decimal.NewFromInt(10).Equal(sale.Total))

	w = f.request(t, http.MethodPost, fmt.Sprintf("/api/v1/sales/%s/refund", sale.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "refunded", testutil.ResponseData[tradeapp.SaleResponse](t, w).Status)
}

func TestAPI_Payables(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(t, http.MethodPost, "/api/v1/payables", map[string]any{"supplier_name": "Textile Mill", "amount": "100"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payable := testutil.ResponseData[financeapp.PayableResponse](t, w)
	assert.Equal(t, int64(1), payable.PayableNumber)

	w = f.request(t, http.MethodPost, fmt.Sprintf("/api/v1/payables/%s/payments", payable.ID), map[string]any{"amount": "100"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "paid", testutil.ResponseData[financeapp.PayablePaymentResult](t, w).Payable.Status)

	w = f.request(t, http.MethodPost, fmt.Sprintf("/api/v1/payables/%s/cancel", payable.ID), nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState)
}

func TestAPI_Errors(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("binding failures list fields", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/api/v1/orders", map[string]any{
			"items": []map[string]any{{"product_id": uuid.New(), "quantity": 0}},
		})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		assert.Contains(t, w.Body.String(), "Items[0].Quantity")
	})

	t.Run("domain validation", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/api/v1/receivables", map[string]any{"amount": "0"})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("unknown order", func(t *testing.T) {
		w := f.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", uuid.New()), nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/sales/not-a-uuid", nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})

	t.Run("unknown counter", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/sequences/invoice/next", nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		body := map[string]any{"sku": "dup-1", "name": "Mug", "price": "4"}
		require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/products", body))
		w := f.request(t, http.MethodPost, "/api/v1/products", body)
		testutil.AssertErrorResponse(t, w, http.StatusConflict, dto.ErrCodeConflict)
	})
}
