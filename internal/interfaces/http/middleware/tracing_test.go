package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs a recording tracer provider for the test
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newTracedRouter(status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Tracing(TracingConfig{Enabled: true, ServiceName: "backoffice-test"}), StoreContext(), SpanAttributes())
	router.GET("/orders/:id", func(c *gin.Context) {
		c.Status(status)
	})
	return router
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestSpanAttributes(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/orders/42", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	req.Header.Set(TenantHeader, "8f14e45f-ceea-467f-a0f6-3c2a1e4b0001")
	req.Header.Set(UserHeader, "8f14e45f-ceea-467f-a0f6-3c2a1e4b0002")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /orders/:id", span.Name())

	v, ok := spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-42", v.AsString())
	v, ok = spanAttr(span, "tenant_id")
	require.True(t, ok)
	assert.Equal(t, "8f14e45f-ceea-467f-a0f6-3c2a1e4b0001", v.AsString())
	_, ok = spanAttr(span, "user_id")
	assert.True(t, ok)
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestSpanAttributes_MarksClientErrors(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(http.StatusUnprocessableEntity)

	req := httptest.NewRequest(http.MethodGet, "/orders/42", nil)
	req.Header.Set(TenantHeader, "8f14e45f-ceea-467f-a0f6-3c2a1e4b0001")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Unprocessable Entity", spans[0].Status().Description)
}
