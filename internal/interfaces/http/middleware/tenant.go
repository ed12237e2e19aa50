package middleware

import (
	"net/http"

	"github.com/atelierpoz/backoffice/internal/infrastructure/logger"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Headers identifying the store and the operator. Authentication is handled
// upstream; these values are trusted as given.
const (
	TenantHeader         = "X-Tenant-ID"
	UserHeader           = "X-User-ID"
	IdempotencyKeyHeader = "Idempotency-Key"
)

// gin context keys
const (
	TenantIDKey = "tenant_id"
	UserIDKey   = "user_id"
)

// StoreContext requires a valid X-Tenant-ID, accepts an optional X-User-ID,
// and stores both in the gin context. The tenant id is also attached to the
// request context so logs written below carry it.
func StoreContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(TenantHeader)
		if raw == "" || len(raw) > MaxTenantIDLength {
			abortBadTenant(c, "X-Tenant-ID header is required")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			abortBadTenant(c, "X-Tenant-ID must be a UUID")
			return
		}
		c.Set(TenantIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID))

		if rawUser := c.GetHeader(UserHeader); rawUser != "" {
			userID, err := uuid.Parse(rawUser)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeBadRequest, "X-User-ID must be a UUID", c.GetString(RequestIDKey)))
				return
			}
			c.Set(UserIDKey, userID)
		}

		c.Next()
	}
}

func abortBadTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInvalidTenant, message, c.GetString(RequestIDKey)))
}

// GetTenantID returns the store id set by StoreContext
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(TenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserID returns the operator id, or uuid.Nil when none was sent
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
