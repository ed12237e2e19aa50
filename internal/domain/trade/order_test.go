package trade

import (
	"testing"

	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	items := LineItems{{ProductID: uuid.New(), Quantity: 2}}
	order, err := NewOrder(uuid.New(), 1, nil, items, decimal.NewFromInt(40))
	require.NoError(t, err)
	return order
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusCompleted, true},
		{OrderStatusCancelled, true},
		{OrderStatus("PENDING"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusProcessing, OrderStatusCompleted, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, true},
		{OrderStatusCompleted, OrderStatusProcessing, false},
		{OrderStatusCompleted, OrderStatusCompleted, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// Order Tests
// ============================================

func TestNewOrder(t *testing.T) {
	order := createTestOrder(t)

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, int64(1), order.OrderNumber)
	assert.False(t, order.StockApplied)
	require.Len(t, order.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderCreated, order.GetDomainEvents()[0].EventType())
}

func TestNewOrder_Validation(t *testing.T) {
	tenantID := uuid.New()

	t.Run("no items", func(t *testing.T) {
		_, err := NewOrder(tenantID, 1, nil, nil, decimal.Zero)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewOrder(tenantID, 1, nil, LineItems{{ProductID: uuid.New(), Quantity: 0}}, decimal.Zero)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := NewOrder(tenantID, 1, nil, LineItems{{Quantity: 1}}, decimal.Zero)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("negative total", func(t *testing.T) {
		_, err := NewOrder(tenantID, 1, nil, LineItems{{ProductID: uuid.New(), Quantity: 1}}, decimal.NewFromInt(-1))
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("incomplete variant selection", func(t *testing.T) {
		items := LineItems{{ProductID: uuid.New(), Quantity: 1, SelectedVariants: catalog.Selections{{AttributeID: "color"}}}}
		_, err := NewOrder(tenantID, 1, nil, items, decimal.Zero)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("complete stamps completed at", func(t *testing.T) {
		order := createTestOrder(t)
		order.ClearDomainEvents()

		require.NoError(t, order.TransitionTo(OrderStatusCompleted))
		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
		require.Len(t, order.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeOrderCompleted, order.GetDomainEvents()[0].EventType())
	})

	t.Run("cancel from completed records previous status", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.TransitionTo(OrderStatusCompleted))
		order.ClearDomainEvents()

		require.NoError(t, order.TransitionTo(OrderStatusCancelled))
		assert.NotNil(t, order.CancelledAt)
		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(*OrderCancelledEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusCompleted, cancelled.PreviousStatus)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.TransitionTo(OrderStatusCancelled))

		err := order.TransitionTo(OrderStatusPending)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("same status rejected", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.TransitionTo(OrderStatusPending)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown status", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.TransitionTo(OrderStatus("shipped"))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestOrder_StockFlag(t *testing.T) {
	order := createTestOrder(t)

	assert.False(t, order.MarkStockRestored(), "nothing to restore before stock is applied")
	assert.True(t, order.MarkStockApplied())
	assert.False(t, order.MarkStockApplied(), "stock is applied at most once")
	assert.True(t, order.MarkStockRestored())
	assert.False(t, order.StockApplied)
}

func TestOrder_ReplaceItems(t *testing.T) {
	order := createTestOrder(t)
	newItems := LineItems{{ProductID: uuid.New(), Quantity: 5}}

	require.NoError(t, order.ReplaceItems(newItems, decimal.NewFromInt(100)))
	assert.Equal(t, newItems, order.Items)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(100)))

	require.NoError(t, order.TransitionTo(OrderStatusCancelled))
	err := order.ReplaceItems(newItems, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestLineItems_ScanAndValue(t *testing.T) {
	items := LineItems{{
		ProductID:        uuid.MustParse("7f8f3b9e-3f4a-4d2b-9e55-5a3b0c1d2e3f"),
		Quantity:         2,
		SelectedVariants: catalog.Selections{{AttributeID: "color", VariantID: "red"}},
	}}
	raw, err := items.Value()
	require.NoError(t, err)

	var decoded LineItems
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, items, decoded)

	var empty LineItems
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
	assert.Error(t, empty.Scan(42))
}
