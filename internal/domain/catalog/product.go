package catalog

import (
	"strings"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the stock-holding aggregate. Stock lives on the product and,
// optionally, on attribute variants or on pre-materialized combinations.
type Product struct {
	shared.TenantAggregateRoot
	SKU          string
	Name         string
	Price        decimal.Decimal
	Stock        int
	Attributes   Attributes
	Combinations Combinations

	index *StockIndex
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, sku, name string, price decimal.Decimal, stock int) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewValidationError("product sku is required")
	}
	if len(sku) > 64 {
		return nil, shared.NewValidationError("product sku cannot exceed 64 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("product name is required")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewValidationError("product stock cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Price:               price,
		Stock:               stock,
		Attributes:          Attributes{},
		Combinations:        Combinations{},
	}, nil
}

// SetVariants replaces the attribute and combination structure
func (p *Product) SetVariants(attrs Attributes, combos Combinations) error {
	for _, attr := range attrs {
		if attr.ID == "" {
			return shared.NewValidationError("attribute id is required")
		}
		for _, v := range attr.Variants {
			if v.ID == "" {
				return shared.NewValidationError("variant id is required on attribute %s", attr.ID)
			}
			if v.Stock < 0 {
				return shared.NewValidationError("variant %s stock cannot be negative", v.ID)
			}
		}
	}
	seen := make(map[string]string, len(combos))
	for _, c := range combos {
		if c.ID == "" {
			return shared.NewValidationError("combination id is required")
		}
		if len(c.Selections) == 0 {
			return shared.NewValidationError("combination %s has no selections", c.ID)
		}
		if c.Stock < 0 {
			return shared.NewValidationError("combination %s stock cannot be negative", c.ID)
		}
		sig := c.Signature()
		if other, dup := seen[sig]; dup {
			return shared.NewValidationError("combinations %s and %s have the same selections", other, c.ID)
		}
		seen[sig] = c.ID
	}

	if attrs == nil {
		attrs = Attributes{}
	}
	if combos == nil {
		combos = Combinations{}
	}
	p.Attributes = attrs
	p.Combinations = combos
	p.index = nil
	return nil
}

// Index returns the lookup index for the current variant structure
func (p *Product) Index() *StockIndex {
	if p.index == nil {
		p.index = NewStockIndex(p.Attributes, p.Combinations)
	}
	return p.index
}

// FindCombination returns the combination with the given id
func (p *Product) FindCombination(id string) (*Combination, bool) {
	pos, ok := p.Index().CombinationByID(id)
	if !ok {
		return nil, false
	}
	return &p.Combinations[pos], true
}

// AvailableStock returns the stock a sale line can draw from: the
// combination's stock when one is named, otherwise the product's.
func (p *Product) AvailableStock(combinationID *string) (int, error) {
	if combinationID == nil || *combinationID == "" {
		return p.Stock, nil
	}
	combo, ok := p.FindCombination(*combinationID)
	if !ok {
		return 0, shared.NewNotFoundError("combination", *combinationID)
	}
	return combo.Stock, nil
}

// ApplyStockDelta moves stock for one line by sign*quantity.
//
// Bucket resolution, in order:
//  1. a combination whose selections are set-equal to the line's selections
//     (or the pre-resolved CombinationID) takes the delta, mirrored on Stock;
//  2. otherwise every distinct selected attribute variant takes the delta
//     once and Stock moves once;
//  3. otherwise only Stock moves.
//
// Decrements floor at zero; increments are not capped.
func (p *Product) ApplyStockDelta(req StockRequest, sign StockSign) StockMovement {
	mv := StockMovement{
		Sign:          sign,
		Quantity:      req.Quantity,
		ProductBefore: p.Stock,
	}
	idx := p.Index()

	if pos, ok := p.resolveCombination(idx, req); ok {
		combo := &p.Combinations[pos]
		combo.Stock = clampedDelta(combo.Stock, req.Quantity, sign)
		p.Stock = clampedDelta(p.Stock, req.Quantity, sign)
		mv.Bucket = BucketCombination
		mv.CombinationID = combo.ID
	} else if len(req.Selections) > 0 {
		moved := make(map[variantPos]bool, len(req.Selections))
		for _, sel := range req.Selections {
			pos, found := idx.variant(sel.AttributeID, sel.VariantID)
			if !found || moved[pos] {
				continue
			}
			moved[pos] = true
			v := &p.Attributes[pos.attr].Variants[pos.variant]
			v.Stock = clampedDelta(v.Stock, req.Quantity, sign)
			mv.Variants = append(mv.Variants, sel)
		}
		p.Stock = clampedDelta(p.Stock, req.Quantity, sign)
		mv.Bucket = BucketVariant
	} else {
		p.Stock = clampedDelta(p.Stock, req.Quantity, sign)
		mv.Bucket = BucketProduct
	}

	mv.ProductAfter = p.Stock
	p.IncrementVersion()
	return mv
}

func (p *Product) resolveCombination(idx *StockIndex, req StockRequest) (int, bool) {
	if len(p.Combinations) == 0 {
		return 0, false
	}
	if req.CombinationID != nil && *req.CombinationID != "" {
		if pos, ok := idx.CombinationByID(*req.CombinationID); ok {
			return pos, true
		}
	}
	return idx.CombinationBySignature(req.Selections)
}
