package catalog

import (
	"testing"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestProduct(t *testing.T, stock int) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "tee-01", "Tee", decimal.NewFromInt(20), stock)
	require.NoError(t, err)
	return p
}

func colorSizeAttributes() Attributes {
	return Attributes{
		{ID: "color", Name: "Color", Variants: []AttributeVariant{
			{ID: "red", Name: "Red", Stock: 4},
			{ID: "blue", Name: "Blue", Stock: 6},
		}},
		{ID: "size", Name: "Size", Variants: []AttributeVariant{
			{ID: "m", Name: "M", Stock: 5},
			{ID: "l", Name: "L", Stock: 1},
		}},
	}
}

func TestNewProduct_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewProduct(tenantID, "", "Tee", decimal.Zero, 0)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = NewProduct(tenantID, "SKU", "  ", decimal.Zero, 0)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = NewProduct(tenantID, "SKU", "Tee", decimal.NewFromInt(-1), 0)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = NewProduct(tenantID, "SKU", "Tee", decimal.Zero, -3)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	p, err := NewProduct(tenantID, "tee-01", "Tee", decimal.NewFromInt(20), 7)
	require.NoError(t, err)
	assert.Equal(t, "TEE-01", p.SKU)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, 1, p.Version)
}

func TestSetVariants_RejectsDuplicateSelections(t *testing.T) {
	p := newTestProduct(t, 10)
	err := p.SetVariants(colorSizeAttributes(), Combinations{
		{ID: "c1", Selections: map[string]string{"color": "red", "size": "m"}, Stock: 2},
		{ID: "c2", Selections: map[string]string{"size": "m", "color": "red"}, Stock: 3},
	})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestSelectionsSignature_OrderIndependent(t *testing.T) {
	a := Selections{{AttributeID: "color", VariantID: "red"}, {AttributeID: "size", VariantID: "m"}}
	b := Selections{{AttributeID: "size", VariantID: "m"}, {AttributeID: "color", VariantID: "red"}}

	sigA, okA := a.Signature()
	sigB, okB := b.Signature()
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, sigA, sigB)

	_, ok := Selections{{AttributeID: "color", VariantID: "red"}, {AttributeID: "color", VariantID: "blue"}}.Signature()
	assert.False(t, ok)

	_, ok = Selections{}.Signature()
	assert.False(t, ok)
}

func TestSelectionsSignature_SeparatorBytesInIDs(t *testing.T) {
	one, ok := Selections{{AttributeID: "a", VariantID: "b|c=d"}}.Signature()
	require.True(t, ok)
	two := Combination{Selections: map[string]string{"a": "b", "c": "d"}}.Signature()
	assert.NotEqual(t, two, one)

	_, ok = Selections{{AttributeID: "color", VariantID: "red"}, {AttributeID: "color", VariantID: "red"}}.Signature()
	assert.False(t, ok)
}

func TestSetVariants_AcceptsIDsContainingSeparators(t *testing.T) {
	p := newTestProduct(t, 10)
	err := p.SetVariants(Attributes{}, Combinations{
		{ID: "two-dims", Selections: map[string]string{"a": "b", "c": "d"}, Stock: 2},
		{ID: "one-dim", Selections: map[string]string{"a": "b|c=d"}, Stock: 3},
	})
	require.NoError(t, err)
	assert.Len(t, p.Combinations, 2)
}

func TestApplyStockDelta_SeparatorIDsDoNotMatchLargerCombination(t *testing.T) {
	p := newTestProduct(t, 10)
	require.NoError(t, p.SetVariants(Attributes{}, Combinations{
		{ID: "two-dims", Selections: map[string]string{"a": "b", "c": "d"}, Stock: 5},
	}))

	mv := p.ApplyStockDelta(StockRequest{
		Quantity:   1,
		Selections: Selections{{AttributeID: "a", VariantID: "b|c=d"}},
	}, StockDecrement)

	assert.Equal(t, BucketVariant, mv.Bucket)
	assert.Empty(t, mv.CombinationID)
	assert.Equal(t, 5, p.Combinations[0].Stock)
	assert.Equal(t, 9, p.Stock)
}

func TestApplyStockDelta_RepeatedPairIsNotSetEqual(t *testing.T) {
	p := newTestProduct(t, 10)
	require.NoError(t, p.SetVariants(colorSizeAttributes(), Combinations{
		{ID: "red", Selections: map[string]string{"color": "red"}, Stock: 5},
	}))

	mv := p.ApplyStockDelta(StockRequest{
		Quantity: 1,
		Selections: Selections{
			{AttributeID: "color", VariantID: "red"},
			{AttributeID: "color", VariantID: "red"},
		},
	}, StockDecrement)

	assert.Equal(t, BucketVariant, mv.Bucket)
	assert.Equal(t, 5, p.Combinations[0].Stock)
	assert.Equal(t, 3, p.Attributes[0].Variants[0].Stock)
	assert.Len(t, mv.Variants, 1)
	assert.Equal(t, 9, p.Stock)
}

func TestApplyStockDelta_CombinationBucket(t *testing.T) {
	p := newTestProduct(t, 10)
	require.NoError(t, p.SetVariants(Attributes{}, Combinations{
		{ID: "red", Selections: map[string]string{"color": "red"}, Stock: 5},
	}))

	mv := p.ApplyStockDelta(StockRequest{
		Quantity:   2,
		Selections: Selections{{AttributeID: "color", VariantID: "red"}},
	}, StockDecrement)

	assert.Equal(t, BucketCombination, mv.Bucket)
	assert.Equal(t, "red", mv.CombinationID)
	assert.Equal(t, 3, p.Combinations[0].Stock)
	assert.Equal(t, 8, p.Stock)
	assert.Equal(t, 10, mv.ProductBefore)
	assert.Equal(t, 8, mv.ProductAfter)

	p.ApplyStockDelta(StockRequest{
		Quantity:   2,
		Selections: Selections{{AttributeID: "color", VariantID: "red"}},
	}, StockIncrement)
	assert.Equal(t, 5, p.Combinations[0].Stock)
	assert.Equal(t, 10, p.Stock)
}

func TestApplyStockDelta_CombinationByID(t *testing.T) {
	p := newTestProduct(t, 4)
	require.NoError(t, p.SetVariants(colorSizeAttributes(), Combinations{
		{ID: "c-red-m", Selections: map[string]string{"color": "red", "size": "m"}, Stock: 2},
		{ID: "c-blue-l", Selections: map[string]string{"color": "blue", "size": "l"}, Stock: 2},
	}))

	mv := p.ApplyStockDelta(StockRequest{Quantity: 1, CombinationID: strPtr("c-blue-l")}, StockDecrement)

	assert.Equal(t, BucketCombination, mv.Bucket)
	assert.Equal(t, 2, p.Combinations[0].Stock)
	assert.Equal(t, 1, p.Combinations[1].Stock)
	assert.Equal(t, 3, p.Stock)
}

func TestApplyStockDelta_PartialSelectionFallsBackToVariants(t *testing.T) {
	p := newTestProduct(t, 10)
	require.NoError(t, p.SetVariants(colorSizeAttributes(), Combinations{
		{ID: "c-red-m", Selections: map[string]string{"color": "red", "size": "m"}, Stock: 2},
	}))

	// only one of two dimensions selected: no combination is set-equal
	mv := p.ApplyStockDelta(StockRequest{
		Quantity:   1,
		Selections: Selections{{AttributeID: "color", VariantID: "red"}},
	}, StockDecrement)

	assert.Equal(t, BucketVariant, mv.Bucket)
	assert.Equal(t, 2, p.Combinations[0].Stock)
	assert.Equal(t, 3, p.Attributes[0].Variants[0].Stock)
	assert.Equal(t, 9, p.Stock)
}

func TestApplyStockDelta_EveryAttributeVariantMoves(t *testing.T) {
	p := newTestProduct(t, 10)
	require.NoError(t, p.SetVariants(colorSizeAttributes(), nil))

	mv := p.ApplyStockDelta(StockRequest{
		Quantity: 2,
		Selections: Selections{
			{AttributeID: "color", VariantID: "blue"},
			{AttributeID: "size", VariantID: "l"},
		},
	}, StockDecrement)

	assert.Equal(t, BucketVariant, mv.Bucket)
	assert.Len(t, mv.Variants, 2)
	assert.Equal(t, 4, p.Attributes[0].Variants[1].Stock) // blue 6 -> 4
	assert.Equal(t, 0, p.Attributes[1].Variants[1].Stock) // l 1 -> clamped at 0
	assert.Equal(t, 8, p.Stock)                           // product moves once
}

func TestApplyStockDelta_UnknownVariantSkipped(t *testing.T) {
	p := newTestProduct(t, 10)
	require.NoError(t, p.SetVariants(colorSizeAttributes(), nil))

	mv := p.ApplyStockDelta(StockRequest{
		Quantity:   3,
		Selections: Selections{{AttributeID: "color", VariantID: "green"}},
	}, StockDecrement)

	assert.Equal(t, BucketVariant, mv.Bucket)
	assert.Empty(t, mv.Variants)
	assert.Equal(t, 7, p.Stock)
}

func TestApplyStockDelta_ProductOnlyClampAndUnclampedRestore(t *testing.T) {
	p := newTestProduct(t, 2)

	mv := p.ApplyStockDelta(StockRequest{Quantity: 5}, StockDecrement)
	assert.Equal(t, BucketProduct, mv.Bucket)
	assert.Equal(t, 0, p.Stock)

	// restore is not capped at the original level
	p.ApplyStockDelta(StockRequest{Quantity: 5}, StockIncrement)
	assert.Equal(t, 5, p.Stock)
}

func TestAvailableStock(t *testing.T) {
	p := newTestProduct(t, 9)
	require.NoError(t, p.SetVariants(Attributes{}, Combinations{
		{ID: "c1", Selections: map[string]string{"color": "red"}, Stock: 2},
	}))

	n, err := p.AvailableStock(nil)
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	n, err = p.AvailableStock(strPtr("c1"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = p.AvailableStock(strPtr("nope"))
	assert.True(t, shared.IsCode(err, shared.CodeNotFound))
}

func TestJSONColumns_RoundTripThroughScan(t *testing.T) {
	attrs := colorSizeAttributes()
	v, err := attrs.Value()
	require.NoError(t, err)

	var scanned Attributes
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, attrs, scanned)

	var empty Combinations
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)
	assert.Error(t, empty.Scan(42))
}
