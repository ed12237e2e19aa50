package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AttributeVariant is one option within an attribute (e.g. color=red) with its own stock pool
type AttributeVariant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Attribute is a product dimension such as color or size
type Attribute struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Variants []AttributeVariant `json:"variants"`
}

// Combination is a pre-materialized selection of one variant per attribute
type Combination struct {
	ID         string            `json:"id"`
	Selections map[string]string `json:"selections"` // attribute id -> variant id
	Stock      int               `json:"stock"`
	PriceDelta decimal.Decimal   `json:"price_delta"`
}

// Signature returns the selection-set signature of the combination
func (c Combination) Signature() string {
	return signatureOf(c.Selections)
}

// VariantSelection is one (attribute, variant) pair chosen on a line item
type VariantSelection struct {
	AttributeID string `json:"attribute_id"`
	VariantID   string `json:"variant_id"`
}

// Selections is the list of variant choices on a line item
type Selections []VariantSelection

// Signature returns the order-independent signature of the selection set.
// ok is false when an attribute is selected more than once, which can never
// equal a combination since a combination holds one variant per attribute.
func (s Selections) Signature() (signature string, ok bool) {
	if len(s) == 0 {
		return "", false
	}
	m := make(map[string]string, len(s))
	for _, sel := range s {
		if _, exists := m[sel.AttributeID]; exists {
			return "", false
		}
		m[sel.AttributeID] = sel.VariantID
	}
	return signatureOf(m), true
}

// signatureOf encodes the set as "<n>;" followed by length-prefixed
// "<len>:<attr><len>:<variant>" pairs in attribute order, so ids containing
// any separator byte cannot collide with a different set.
func signatureOf(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strconv.Itoa(len(keys)))
	b.WriteByte(';')
	for _, k := range keys {
		writeLengthPrefixed(&b, k)
		writeLengthPrefixed(&b, m[k])
	}
	return b.String()
}

func writeLengthPrefixed(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// Attributes is the JSON-encoded attribute list stored on the product row
type Attributes []Attribute

// Value implements driver.Valuer for database storage
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (a *Attributes) Scan(value any) error {
	data, err := jsonBytes(value)
	if err != nil || data == nil {
		*a = Attributes{}
		return err
	}
	return json.Unmarshal(data, a)
}

// Combinations is the JSON-encoded combination list stored on the product row
type Combinations []Combination

// Value implements driver.Valuer for database storage
func (c Combinations) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (c *Combinations) Scan(value any) error {
	data, err := jsonBytes(value)
	if err != nil || data == nil {
		*c = Combinations{}
		return err
	}
	return json.Unmarshal(data, c)
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported type for JSON column")
	}
}
