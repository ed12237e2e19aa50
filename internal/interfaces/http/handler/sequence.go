package handler

import (
	"github.com/atelierpoz/backoffice/internal/application/sequence"
	"github.com/gin-gonic/gin"
)

// SequenceHandler exposes the next document number of a counter
type SequenceHandler struct {
	BaseHandler
	sequenceService *sequence.SequenceService
}

// NewSequenceHandler creates a new SequenceHandler
func NewSequenceHandler(sequenceService *sequence.SequenceService) *SequenceHandler {
	return &SequenceHandler{sequenceService: sequenceService}
}

// Next godoc
// @Summary      Peek the next number of a counter
// @Description  The value is not reserved; a concurrent write may take it first.
// @Tags         sequences
// @Param        counter path string true "order, receivable, sale or payable"
// @Success      200 {object} dto.Response{data=sequence.NextNumberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sequences/{counter}/next [get]
func (h *SequenceHandler) Next(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	next, err := h.sequenceService.Allocate(c.Request.Context(), tenantID, c.Param("counter"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, next)
}
