package handler

import (
	"context"

	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHandler handles point-of-sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// SaleItemRequest is one point-of-sale line
type SaleItemRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	CombinationID *string         `json:"combination_id"`
	Quantity      int             `json:"quantity" binding:"required,min=1"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest is the body of POST /sales. A zero total is computed from the lines.
type CreateSaleRequest struct {
	ClientID *uuid.UUID        `json:"client_id"`
	Items    []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Total    decimal.Decimal   `json:"total"`
}

// Create godoc
// @Summary      Commit a point-of-sale transaction
// @Description  Rejected with ERR_INSUFFICIENT_STOCK when any line asks for more than is on hand.
// @Tags         sales
// @Param        request body CreateSaleRequest true "Sale"
// @Success      201 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	items := make(trade.SaleItems, len(req.Items))
	for i, it := range req.Items {
		items[i] = trade.SaleItem{
			ProductID:     it.ProductID,
			CombinationID: it.CombinationID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
		}
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), tenantID, tradeapp.CreateSaleRequest{
		ClientID:  req.ClientID,
		Items:     items,
		Total:     req.Total,
		CreatedBy: getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID returns one sale
func (h *SaleHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	saleID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// List returns a page of sales
func (h *SaleHandler) List(c *gin.Context) {
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

	sales, total, err := h.saleService.ListSales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// Refund reverses a completed sale and restores its stock
func (h *SaleHandler) Refund(c *gin.Context) {
	h.reverse(c, h.saleService.RefundSale)
}

// Cancel voids a completed sale and restores its stock
func (h *SaleHandler) Cancel(c *gin.Context) {
	h.reverse(c, h.saleService.CancelSale)
}

func (h *SaleHandler) reverse(c *gin.Context, op func(ctx context.Context, tenantID, saleID, actorID uuid.UUID) (*tradeapp.SaleResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	saleID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := op(c.Request.Context(), tenantID, saleID, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}
