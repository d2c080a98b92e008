package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs successful request at info level", func(t *testing.T) {
		logger, buf := newBufferLogger()

		router := gin.New()
		router.Use(GinMiddleware(logger))
		router.GET("/orders", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders?status=OPEN", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "HTTP Request", out["msg"])
		assert.Equal(t, "info", out["level"])
		assert.Equal(t, "GET", out["method"])
		assert.Equal(t, "/orders", out["path"])
		assert.Equal(t, "status=OPEN", out["query"])
		assert.Equal(t, float64(http.StatusOK), out["status"])
	})

	t.Run("logs client errors at warn level", func(t *testing.T) {
		logger, buf := newBufferLogger()

		router := gin.New()
		router.Use(GinMiddleware(logger))
		router.GET("/orders/:id", func(c *gin.Context) {
			c.String(http.StatusNotFound, "missing")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/unknown", nil)
		router.ServeHTTP(w, req)

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "warn", out["level"])
	})

	t.Run("logs server errors at error level", func(t *testing.T) {
		logger, buf := newBufferLogger()

		router := gin.New()
		router.Use(GinMiddleware(logger))
		router.GET("/boom", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		router.ServeHTTP(w, req)

		assert.Contains(t, buf.String(), `"level":"error"`)
	})

	t.Run("propagates request id into the log entry", func(t *testing.T) {
		logger, buf := newBufferLogger()

		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-777")
			c.Next()
		})
		router.Use(GinMiddleware(logger))
		router.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		assert.Contains(t, buf.String(), "req-777")
	})
}

func TestRecovery(t *testing.T) {
	logger, buf := newBufferLogger()

	router := gin.New()
	router.Use(Recovery(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("something broke")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(buf.String(), "Panic recovered"))
	assert.True(t, strings.Contains(buf.String(), "something broke"))
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request-scoped logger", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		logger := zap.NewNop()
		c.Set("logger", logger)

		assert.Same(t, logger, GetGinLogger(c))
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		logger := GetGinLogger(c)
		assert.NotNil(t, logger)
		logger.Info("should not panic")
	})
}
