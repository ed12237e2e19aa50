package middleware

import (
	"net/http"

	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ErrCodeRequestTooLarge is returned when the body exceeds the configured limit
const ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString(RequestIDKey),
			))
			return
		}

		// chunked bodies carry no Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
