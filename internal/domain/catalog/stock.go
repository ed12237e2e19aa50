package catalog

// StockSign is the direction of a stock movement
type StockSign int

const (
	StockDecrement StockSign = -1
	StockIncrement StockSign = 1
)

// IsValid reports whether the sign is -1 or +1
func (s StockSign) IsValid() bool {
	return s == StockDecrement || s == StockIncrement
}

// String returns a label used in logs and metrics
func (s StockSign) String() string {
	if s == StockIncrement {
		return "restore"
	}
	return "decrement"
}

// StockBucket identifies which counters a movement touched
type StockBucket string

const (
	BucketCombination StockBucket = "combination"
	BucketVariant     StockBucket = "attribute_variant"
	BucketProduct     StockBucket = "product"
)

// StockRequest describes the quantity and variant choice for one line
type StockRequest struct {
	Quantity      int
	Selections    Selections
	CombinationID *string // pre-resolved combination, used by point-of-sale lines
}

// StockMovement reports what ApplyStockDelta changed
type StockMovement struct {
	Bucket        StockBucket
	CombinationID string
	Variants      []VariantSelection
	Sign          StockSign
	Quantity      int
	ProductBefore int
	ProductAfter  int
}

type comboEntry struct {
	pos  int
	size int
}

type variantPos struct {
	attr    int
	variant int
}

// StockIndex resolves stock buckets in O(1) instead of scanning the
// attribute and combination lists for every line.
type StockIndex struct {
	bySignature map[string]comboEntry
	byComboID   map[string]int
	variants    map[string]variantPos // "attrID\x00variantID" -> position
}

// NewStockIndex builds the lookup tables for a product's variant structure
func NewStockIndex(attrs Attributes, combos Combinations) *StockIndex {
	idx := &StockIndex{
		bySignature: make(map[string]comboEntry, len(combos)),
		byComboID:   make(map[string]int, len(combos)),
		variants:    make(map[string]variantPos),
	}
	for i, c := range combos {
		sig := c.Signature()
		// first combination wins on duplicate signatures, like a front-to-back scan
		if _, exists := idx.bySignature[sig]; !exists {
			idx.bySignature[sig] = comboEntry{pos: i, size: len(c.Selections)}
		}
		if _, exists := idx.byComboID[c.ID]; !exists {
			idx.byComboID[c.ID] = i
		}
	}
	for a, attr := range attrs {
		for v, variant := range attr.Variants {
			key := variantKey(attr.ID, variant.ID)
			if _, exists := idx.variants[key]; !exists {
				idx.variants[key] = variantPos{attr: a, variant: v}
			}
		}
	}
	return idx
}

// CombinationBySignature returns the position of the combination whose selections equal the set
func (idx *StockIndex) CombinationBySignature(sel Selections) (int, bool) {
	sig, ok := sel.Signature()
	if !ok {
		return 0, false
	}
	entry, found := idx.bySignature[sig]
	if !found || entry.size != len(sel) {
		return 0, false
	}
	return entry.pos, true
}

// CombinationByID returns the position of the combination with the given id
func (idx *StockIndex) CombinationByID(id string) (int, bool) {
	pos, found := idx.byComboID[id]
	return pos, found
}

func (idx *StockIndex) variant(attrID, variantID string) (variantPos, bool) {
	pos, found := idx.variants[variantKey(attrID, variantID)]
	return pos, found
}

func variantKey(attrID, variantID string) string {
	return attrID + "\x00" + variantID
}

// clampedDelta applies sign*qty to current, flooring at zero only on decrement
func clampedDelta(current, qty int, sign StockSign) int {
	next := current + int(sign)*qty
	if sign == StockDecrement && next < 0 {
		return 0
	}
	return next
}
