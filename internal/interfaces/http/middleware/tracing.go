// Package middleware provides the gin middleware chain of the back-office API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Limits on header values copied into spans and logs.
const (
	MaxRequestIDLength = 128
	MaxTenantIDLength  = 64
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the otelgin middleware, or a pass-through when disabled.
// Spans are named after the route pattern (e.g. "GET /api/v1/orders/:id").
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAttributes tags the active span with request, store and operator ids
// and marks it as failed on 4xx/5xx responses. It must run after Tracing
// and StoreContext.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := c.GetString(RequestIDKey); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if tenantID, ok := GetTenantID(c); ok {
			span.SetAttributes(attribute.String("tenant_id", tenantID.String()))
		}
		if userID := GetUserID(c); userID != uuid.Nil {
			span.SetAttributes(attribute.String("user_id", userID.String()))
		}

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}
