package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vantagepay/checkout-gateway/internal/handlers"
	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/service"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

func NewRouter(
	orders interfaces.OrderRepository,
	payments *service.PaymentService,
	captures *service.CaptureService,
	refunds *service.RefundService,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "checkout-gateway"})
	})

	checkoutHandler := handlers.NewCheckoutHandler(orders, payments)
	orderHandler := handlers.NewOrderHandler(orders)
	captureHandler := handlers.NewCaptureHandler(captures, refunds)

	r.POST("/checkout/:id/pay", checkoutHandler.Pay)
	r.GET("/orders/:id", orderHandler.GetOrder)
	r.POST("/orders/:id/capture", captureHandler.Capture)
	r.POST("/orders/:id/refund", captureHandler.Refund)

	return r
}
