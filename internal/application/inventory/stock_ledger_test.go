package inventory_test

import (
	"context"
	"testing"

	"github.com/atelierpoz/backoffice/internal/application/inventory"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence"
	"github.com/atelierpoz/backoffice/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
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

type ledgerFixture struct {
	ctx      context.Context
	tenantID uuid.UUID
	ledger   *inventory.StockLedger
	products *persistence.GormProductRepository
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return &ledgerFixture{
		ctx:      context.Background(),
		tenantID: testutil.TestTenantID(),
		ledger:   inventory.NewStockLedger(persistence.NewGormTransactionScope(db), zap.NewNop()),
		products: persistence.NewGormProductRepository(db),
	}
}

// tee has color {red:4, blue:6}, size {m:5} and one combination red+m holding 2
func (f *ledgerFixture) tee(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(f.tenantID, "TEE-"+uuid.NewString()[:8], "Tee", decimal.NewFromInt(20), 10)
	require.NoError(t, err)
	require.NoError(t, p.SetVariants(
		catalog.Attributes{
			{ID: "color", Name: "Color", Variants: []catalog.AttributeVariant{
				{ID: "red", Name: "Red", Stock: 4},
				{ID: "blue", Name: "Blue", Stock: 6},
			}},
			{ID: "size", Name: "Size", Variants: []catalog.AttributeVariant{
				{ID: "m", Name: "M", Stock: 5},
			}},
		},
		catalog.Combinations{
			{ID: "red-m", Selections: map[string]string{"color": "red", "size": "m"}, Stock: 2},
		},
	))
	require.NoError(t, f.products.Create(f.ctx, p))
	return p
}

func (f *ledgerFixture) reload(t *testing.T, id uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := f.products.FindByIDForTenant(f.ctx, f.tenantID, id)
	require.NoError(t, err)
	return p
}

func variantStock(p *catalog.Product, attrID, variantID string) int {
	for _, a := range p.Attributes {
		if a.ID != attrID {
			continue
		}
		for _, v := range a.Variants {
			if v.ID == variantID {
				return v.Stock
			}
		}
	}
	return -1
}

func TestStockLedger_Buckets(t *testing.T) {
	f := newLedgerFixture(t)
	p := f.tee(t)

	t.Run("matching combination takes the delta", func(t *testing.T) {
		// selection order differs from the combination's
		err := f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{
			ProductID: p.ID,
			Quantity:  1,
			SelectedVariants: catalog.Selections{
				{AttributeID: "size", VariantID: "m"},
				{AttributeID: "color", VariantID: "red"},
			},
		}}, catalog.StockDecrement)
		require.NoError(t, err)

		got := f.reload(t, p.ID)
		combo, ok := got.FindCombination("red-m")
		require.True(t, ok)
		assert.Equal(t, 1, combo.Stock)
		assert.Equal(t, 9, got.Stock)
		assert.Equal(t, 4, variantStock(got, "color", "red"), "variants untouched on combination hit")
	})

	t.Run("variants take the delta without a combination", func(t *testing.T) {
		err := f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{
			ProductID:        p.ID,
			Quantity:         2,
			SelectedVariants: catalog.Selections{{AttributeID: "color", VariantID: "blue"}},
		}}, catalog.StockDecrement)
		require.NoError(t, err)

		got := f.reload(t, p.ID)
		assert.Equal(t, 4, variantStock(got, "color", "blue"))
		assert.Equal(t, 7, got.Stock)
	})

	t.Run("plain line moves product stock only", func(t *testing.T) {
		err := f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 3}}, catalog.StockDecrement)
		require.NoError(t, err)
		assert.Equal(t, 4, f.reload(t, p.ID).Stock)
	})

	t.Run("pre-resolved combination id", func(t *testing.T) {
		combo := "red-m"
		err := f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 1, CombinationID: &combo}}, catalog.StockIncrement)
		require.NoError(t, err)
		got := f.reload(t, p.ID)
		c, _ := got.FindCombination("red-m")
		assert.Equal(t, 2, c.Stock)
		assert.Equal(t, 5, got.Stock)
	})
}

func TestStockLedger_ClampsDecrementButNotRestore(t *testing.T) {
	f := newLedgerFixture(t)
	p := f.tee(t)

	require.NoError(t, f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 25}}, catalog.StockDecrement))
	assert.Equal(t, 0, f.reload(t, p.ID).Stock)

	require.NoError(t, f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 25}}, catalog.StockIncrement))
	assert.Equal(t, 25, f.reload(t, p.ID).Stock)
}

func TestStockLedger_Validation(t *testing.T) {
	f := newLedgerFixture(t)
	p := f.tee(t)

	err := f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 1}}, catalog.StockSign(2))
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	err = f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 0}}, catalog.StockDecrement)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	assert.NoError(t, f.ledger.Adjust(f.ctx, f.tenantID, nil, catalog.StockDecrement))
}

func TestStockLedger_UnknownProductRollsBack(t *testing.T) {
	f := newLedgerFixture(t)
	p := f.tee(t)

	err := f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{
		{ProductID: p.ID, Quantity: 1},
		{ProductID: uuid.New(), Quantity: 1},
	}, catalog.StockDecrement)
	assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	assert.Equal(t, 10, f.reload(t, p.ID).Stock)
}

func TestStockLedger_Metrics(t *testing.T) {
	f := newLedgerFixture(t)
	p := f.tee(t)
	metrics := &mockStockMetrics{}
	f.ledger.SetMetrics(metrics)

	metrics.On("RecordStockMovement", mock.Anything, f.tenantID, mock.MatchedBy(func(mv catalog.StockMovement) bool {
		return mv.Bucket == catalog.BucketProduct && mv.ProductBefore == 10 && mv.ProductAfter == 8
	})).Once()
	require.NoError(t, f.ledger.Adjust(f.ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 2}}, catalog.StockDecrement))

	metrics.On("RecordStockAdjustFailure", mock.Anything, f.tenantID, "sale").Once()
	f.ledger.AdjustAfterCommit(f.ctx, f.tenantID, trade.LineItems{{ProductID: uuid.New(), Quantity: 1}}, catalog.StockDecrement, "sale")

	metrics.AssertExpectations(t)
}

func TestStockLedger_AdjustAfterCommitIgnoresCancellation(t *testing.T) {
	f := newLedgerFixture(t)
	p := f.tee(t)

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	f.ledger.AdjustAfterCommit(ctx, f.tenantID, trade.LineItems{{ProductID: p.ID, Quantity: 1}}, catalog.StockDecrement, "order_completed")
	assert.Equal(t, 9, f.reload(t, p.ID).Stock)
}
