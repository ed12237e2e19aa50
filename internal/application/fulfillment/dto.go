package fulfillment

import (
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReceivableRequest bills an order. A nil Amount bills the order total;
// an empty Description becomes "Order #N".
type CreateReceivableRequest struct {
	Amount      *decimal.Decimal
	Description string
	ActorID     uuid.UUID
}

// ManualReceivableRequest records money owed that is not tied to an order
type ManualReceivableRequest struct {
	Amount      decimal.Decimal
	ClientID    *uuid.UUID
	Description string
	ActorID     uuid.UUID
}

// ReplaceItemsRequest swaps the item set of a billed order
type ReplaceItemsRequest struct {
	Items                  trade.LineItems
	Total                  decimal.Decimal
	UpdateReceivableAmount bool
	ActorID                uuid.UUID
}
