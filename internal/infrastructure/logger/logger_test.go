package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("defaults when config is nil", func(t *testing.T) {
		l, err := New(nil, "backoffice")
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path}, "")
		require.NoError(t, err)
		l.Info("hello")
		require.NoError(t, l.Sync())
		assert.FileExists(t, path)
	})

	t.Run("unwritable file is an error", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")}, "")
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	tenantID := uuid.New()

	ctx := WithContext(context.Background(), base)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTenantID(ctx, tenantID)

	assert.Equal(t, "req-1", GetRequestID(ctx))
	got, ok := GetTenantID(ctx)
	require.True(t, ok)
	assert.Equal(t, tenantID, got)

	L(ctx).Info("stock adjusted")
	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
}

func TestFromContext_NoLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.NotPanics(t, func() { L(context.Background()).Info("nop") })
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(10*time.Millisecond))
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, recorded.Len(), "record not found is ignored by default")

	gl.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "sql error", recorded.All()[0].Message)

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, "slow sql", recorded.All()[1].Message)

	gl.Trace(context.Background(), time.Now(), sql, nil)
	assert.Equal(t, "sql", recorded.All()[2].Message)

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 3, recorded.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) {
		assert.Equal(t, "req-42", GetRequestID(c.Request.Context()))
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := recorded.FilterMessage("http request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, recorded.FilterMessage("panic recovered").Len())
}
