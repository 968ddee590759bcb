package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTelemetryWithoutCollector(t *testing.T) {
	require.NoError(t, InitTelemetry("checkout-gateway-test", ""))

	assert.NotNil(t, Logger)
	assert.NotNil(t, Tracer)
}

func TestTracingMiddlewareEchoesTraceID(t *testing.T) {
	require.NoError(t, InitTelemetry("checkout-gateway-test", ""))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TracingMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}
