package trade

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// LineItem is a product reference with quantity and an optional variant choice.
// It is the unit the stock ledger moves.
type LineItem struct {
	ProductID        uuid.UUID          `json:"product_id"`
	Quantity         int                `json:"quantity"`
	SelectedVariants catalog.Selections `json:"selected_variants,omitempty"`
	CombinationID    *string            `json:"combination_id,omitempty"`
}

// StockRequest converts the line to the catalog's bucket request
func (li LineItem) StockRequest() catalog.StockRequest {
	return catalog.StockRequest{
		Quantity:      li.Quantity,
		Selections:    li.SelectedVariants,
		CombinationID: li.CombinationID,
	}
}

// LineItems is the JSON-encoded item list stored on order rows
type LineItems []LineItem

// Validate checks every line has a product and a positive quantity
func (items LineItems) Validate() error {
	if len(items) == 0 {
		return shared.NewValidationError("at least one item is required")
	}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return shared.NewValidationError("item %d: product id is required", i+1)
		}
		if item.Quantity <= 0 {
			return shared.NewValidationError("item %d: quantity must be positive", i+1)
		}
		for _, sel := range item.SelectedVariants {
			if sel.AttributeID == "" || sel.VariantID == "" {
				return shared.NewValidationError("item %d: variant selection needs attribute and variant ids", i+1)
			}
		}
	}
	return nil
}

// Value implements driver.Valuer for database storage
func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (items *LineItems) Scan(value any) error {
	return scanJSON(value, items)
}

func scanJSON(value any, dest any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for JSON column")
	}
}
