package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("context takes precedence over header", func(t *testing.T) {
		c, _ := newTestContext()
		c.Set(middleware.RequestIDKey, "ctx-id")
		c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
		assert.Equal(t, "header-id", getRequestID(c))
	})
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", shared.NewValidationError("amount must be positive"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"not found", shared.NewNotFoundError("order", 7), http.StatusNotFound, dto.ErrCodeNotFound},
		{"invalid state", shared.NewInvalidStateError("order is cancelled"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"insufficient stock", shared.NewInsufficientStockError("product x", 3, 2), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"conflict", shared.NewConflictError("sku taken"), http.StatusConflict, dto.ErrCodeConflict},
		{"wrapped", fmt.Errorf("billing: %w", shared.NewNotFoundError("receivable", 1)), http.StatusNotFound, dto.ErrCodeNotFound},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			c.Set(middleware.RequestIDKey, "req-9")
			h := &BaseHandler{}

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-9", resp.Error.RequestID)
			assert.NotContains(t, resp.Error.Message, "connection reset")
		})
	}
}

func TestBindError(t *testing.T) {
	type body struct {
		SupplierName string `json:"supplier_name" binding:"required"`
		Notes        string `json:"notes" binding:"max=3"`
	}

	t.Run("lists failing fields", func(t *testing.T) {
		c, w := newTestContext()
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{"notes":"too long"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req body
		err := c.ShouldBindJSON(&req)
		require.Error(t, err)
		(&BaseHandler{}).BindError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 2)
		assert.Equal(t, dto.ValidationDetail{Field: "SupplierName", Message: "is required"}, resp.Error.Details[0])
		assert.Equal(t, dto.ValidationDetail{Field: "Notes", Message: "must be at most 3"}, resp.Error.Details[1])
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		c, w := newTestContext()
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{"notes":`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req body
		err := c.ShouldBindJSON(&req)
		require.Error(t, err)
		(&BaseHandler{}).BindError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decode(t, w).Error.Code)
	})
}

func TestSuccessWithMeta(t *testing.T) {
	c, w := newTestContext()
	(&BaseHandler{}).SuccessWithMeta(c, []string{"a"}, 41, 3, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
