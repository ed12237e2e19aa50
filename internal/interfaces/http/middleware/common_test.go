package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORSWithConfig(t *testing.T) {
	t.Run("default config sets no headers for cross-origin requests", func(t *testing.T) {
		router := newCORSRouter(DefaultCORSConfig())

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://elsewhere.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allows listed origin with credentials", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins:     []string{"http://till.local"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://till.local")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://till.local", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("rejects origin not listed", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{AllowOrigins: []string{"http://till.local"}})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://other.local")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://any.local")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight is answered with 204", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{AllowOrigins: []string{"http://till.local"}})

		req := httptest.NewRequest("OPTIONS", "/test", nil)
		req.Header.Set("Origin", "http://till.local")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://till.local", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, TenantHeader)
	assert.Contains(t, cfg.AllowHeaders, IdempotencyKeyHeader)
	assert.Contains(t, cfg.ExposeHeaders, RequestIDHeader)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "till-7-req-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "till-7-req-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "till-7-req-1", w.Body.String())
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		long := strings.Repeat("a", MaxRequestIDLength+1)
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, long)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, long, w.Header().Get(RequestIDHeader))
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}
