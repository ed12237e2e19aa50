// Package handler maps the back-office HTTP API onto the application services.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/infrastructure/logger"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getTenantID returns the store id validated by middleware.StoreContext
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	if id, ok := middleware.GetTenantID(c); ok {
		return id, nil
	}
	return uuid.Nil, errors.New("store ID not found in context")
}

// getUserID returns the acting operator, uuid.Nil when anonymous
func getUserID(c *gin.Context) uuid.UUID {
	return middleware.GetUserID(c)
}

// parseID parses the :id path parameter
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", name)
	}
	return id, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InvalidTenant sends a 400 for a missing store id
func (h *BaseHandler) InvalidTenant(c *gin.Context) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidTenant, "Invalid tenant ID")
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindError reports a request body or query that failed to bind. Validator
// failures are listed per field; anything else is a malformed request.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.BadRequest(c, err.Error())
		return
	}
	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(fe),
			Message: validationMessage(fe),
		})
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// fieldPath drops the top-level struct name from the validator namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid":
		return "must be a UUID"
	default:
		return "failed on " + fe.Tag()
	}
}

// HandleError converts domain errors to HTTP responses; anything else is
// logged and reported as a 500 without leaking its text.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("request failed", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
