package handler

import (
	"github.com/atelierpoz/backoffice/internal/application/fulfillment"
	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order endpoints. Status changes and item edits go
// through the synchronizer so the linked receivable and stock stay aligned.
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
	synchronizer *fulfillment.Synchronizer
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, synchronizer *fulfillment.Synchronizer) *OrderHandler {
	return &OrderHandler{orderService: orderService, synchronizer: synchronizer}
}

// LineItemRequest is one order line
type LineItemRequest struct {
	ProductID        uuid.UUID                  `json:"product_id" binding:"required"`
	Quantity         int                        `json:"quantity" binding:"required,min=1"`
	SelectedVariants []catalog.VariantSelection `json:"selected_variants"`
	CombinationID    *string                    `json:"combination_id"`
}

func toLineItems(reqs []LineItemRequest) trade.LineItems {
	items := make(trade.LineItems, len(reqs))
	for i, r := range reqs {
		items[i] = trade.LineItem{
			ProductID:        r.ProductID,
			Quantity:         r.Quantity,
			SelectedVariants: r.SelectedVariants,
			CombinationID:    r.CombinationID,
		}
	}
	return items
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	ClientID *uuid.UUID        `json:"client_id"`
	Items    []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Total    decimal.Decimal   `json:"total"`
	Notes    string            `json:"notes" binding:"max=2000"`
}

// UpdateStatusRequest moves an order or receivable to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReplaceItemsRequest is the body of PUT /orders/:id/items
type ReplaceItemsRequest struct {
	Items                  []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Total                  decimal.Decimal   `json:"total"`
	UpdateReceivableAmount bool              `json:"update_receivable_amount"`
}

// BillOrderRequest is the body of POST /orders/:id/receivable
type BillOrderRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description" binding:"max=500"`
}

// Create godoc
// @Summary      Open a pending order
// @Tags         orders
// @Param        request body CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), tenantID, tradeapp.CreateOrderRequest{
		ClientID: req.ClientID,
		Items:    toLineItems(req.Items),
		Total:    req.Total,
		Notes:    req.Notes,
		ActorID:  getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Param        status query string false "pending, completed or cancelled"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	filter := query.Filter()

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// UpdateStatus godoc
// @Summary      Complete or cancel an order
// @Description  Completing settles a pending receivable; cancelling restores stock taken by an unbilled order.
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.synchronizer.UpdateOrderStatus(c.Request.Context(), tenantID, orderID, req.Status, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ReplaceItems godoc
// @Summary      Replace the items of a billed order
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ReplaceItemsRequest true "New items"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/items [put]
func (h *OrderHandler) ReplaceItems(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.synchronizer.ReplaceOrderItems(c.Request.Context(), tenantID, orderID, fulfillment.ReplaceItemsRequest{
		Items:                  toLineItems(req.Items),
		Total:                  req.Total,
		UpdateReceivableAmount: req.UpdateReceivableAmount,
		ActorID:                getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Bill godoc
// @Summary      Create the receivable of a pending order
// @Description  Takes the order's stock unless it was already taken.
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body BillOrderRequest false "Amount and description, defaulting to the order total and number"
// @Success      201 {object} dto.Response{data=financeapp.ReceivableResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/receivable [post]
func (h *OrderHandler) Bill(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req BillOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	receivable, err := h.synchronizer.CreateReceivableFromOrder(c.Request.Context(), tenantID, orderID, fulfillment.CreateReceivableRequest{
		Amount:      req.Amount,
		Description: req.Description,
		ActorID:     getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receivable)
}
