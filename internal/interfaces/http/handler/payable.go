package handler

import (
	"time"

	financeapp "github.com/atelierpoz/backoffice/internal/application/finance"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PayableHandler handles supplier payable endpoints
type PayableHandler struct {
	BaseHandler
	payableService *financeapp.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(payableService *financeapp.PayableService) *PayableHandler {
	return &PayableHandler{payableService: payableService}
}

// CreatePayableRequest is the body of POST /payables
type CreatePayableRequest struct {
	SupplierName string          `json:"supplier_name" binding:"required,min=1,max=200"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description" binding:"max=500"`
	DueDate      *time.Time      `json:"due_date"`
}

// Create registers money owed to a supplier
func (h *PayableHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	var req CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payable, err := h.payableService.CreatePayable(c.Request.Context(), tenantID, financeapp.CreatePayableRequest{
		SupplierName: req.SupplierName,
		Amount:       req.Amount,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ActorID:      getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payable)
}

func (h *PayableHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	payableID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	payable, err := h.payableService.GetPayable(c.Request.Context(), tenantID, payableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

func (h *PayableHandler) List(c *gin.Context) {
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

	payables, total, err := h.payableService.ListPayables(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payables, total, filter.Page, filter.PageSize)
}

// AddPayment pays a payable in full or in part. Honors Idempotency-Key like receivables.
func (h *PayableHandler) AddPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	payableID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.payableService.AddPayment(c.Request.Context(), tenantID, payableID, req.toApp(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Duplicate {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

func (h *PayableHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	payableID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	payable, err := h.payableService.CancelPayable(c.Request.Context(), tenantID, payableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}
