package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", &buf)

	logger.Debug("hidden")
	logger.Info("graded", "score", 80)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "graded", entry["msg"])
	assert.Equal(t, float64(80), entry["score"])
}

func TestNewLogger_DevelopmentIncludesDebug(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("development", &buf).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := NewLogger("production", &buf)

	r := gin.New()
	r.Use(ContextLogger(logger), LoggerMiddleware(logger))
	r.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("inside handler")
		c.String(http.StatusOK, "pong")
	})

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), "HTTP Request")
		assert.Contains(t, buf.String(), "inside handler")
	})

	t.Run("propagated", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), "req-123")
	})
}

func TestToSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", &buf)
	assert.NotNil(t, ToSlogLogger(logger))
}
