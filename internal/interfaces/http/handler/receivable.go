package handler

import (
	financeapp "github.com/atelierpoz/backoffice/internal/application/finance"
	"github.com/atelierpoz/backoffice/internal/application/fulfillment"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableHandler handles receivable endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService *financeapp.ReceivableService
	synchronizer      *fulfillment.Synchronizer
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *financeapp.ReceivableService, synchronizer *fulfillment.Synchronizer) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService, synchronizer: synchronizer}
}

// CreateReceivableRequest is the body of POST /receivables
type CreateReceivableRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	ClientID    *uuid.UUID      `json:"client_id"`
	Description string          `json:"description" binding:"max=500"`
}

// AddPaymentRequest is the body of POST /receivables/:id/payments and /payables/:id/payments
type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes" binding:"max=500"`
}

func (r AddPaymentRequest) toApp(c *gin.Context) financeapp.AddPaymentRequest {
	return financeapp.AddPaymentRequest{
		Amount:         r.Amount,
		Notes:          r.Notes,
		IdempotencyKey: c.GetHeader(middleware.IdempotencyKeyHeader),
		ActorID:        getUserID(c),
	}
}

// Create records a receivable that is not tied to an order
func (h *ReceivableHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	var req CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receivable, err := h.synchronizer.CreateManualReceivable(c.Request.Context(), tenantID, fulfillment.ManualReceivableRequest{
		Amount:      req.Amount,
		ClientID:    req.ClientID,
		Description: req.Description,
		ActorID:     getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receivable)
}

// GetByID returns the receivable with its payments and remaining balance
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	receivableID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	result, err := h.receivableService.GetReceivable(c.Request.Context(), tenantID, receivableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns a page of receivables
func (h *ReceivableHandler) List(c *gin.Context) {
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

	receivables, total, err := h.receivableService.ListReceivables(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, receivables, total, filter.Page, filter.PageSize)
}

// UpdateStatus marks a receivable paid or cancelled and carries the change to its order
func (h *ReceivableHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	receivableID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receivable, err := h.synchronizer.UpdateReceivableStatus(c.Request.Context(), tenantID, receivableID, req.Status, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// AddPayment records an installment. A repeated Idempotency-Key returns the
// current state with duplicate=true instead of recording twice.
func (h *ReceivableHandler) AddPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	receivableID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.synchronizer.AddPayment(c.Request.Context(), tenantID, receivableID, req.toApp(c))
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

// ListLogs returns the audit trail, oldest first
func (h *ReceivableHandler) ListLogs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}
	receivableID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	logs, err := h.receivableService.ListReceivableLogs(c.Request.Context(), tenantID, receivableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}
