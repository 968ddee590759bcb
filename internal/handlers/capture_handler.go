package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/service"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

type refundRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type CaptureHandler struct {
	captures *service.CaptureService
	refunds  *service.RefundService
}

func NewCaptureHandler(captures *service.CaptureService, refunds *service.RefundService) *CaptureHandler {
	return &CaptureHandler{
		captures: captures,
		refunds:  refunds,
	}
}

// Capture settles a held authorization for an on-hold order. The capture
// service serializes concurrent triggers per order, so bulk admin actions
// firing twice come back with a conflict instead of a double settlement.
func (h *CaptureHandler) Capture(c *gin.Context) {
	orderID := c.Param("id")

	result, err := h.captures.CaptureOrder(c.Request.Context(), orderID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		telemetry.Logger.Error("Error capturing order",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to capture order", "order_id": orderID})
		return
	}

	if !result.Success {
		status := http.StatusUnprocessableEntity
		if result.Error == service.ErrCaptureInProgress.Error() {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": result.Error, "order_id": orderID})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "captured", "order_id": orderID})
}

// Refund returns settled funds for an eligible order. An absent or zero
// amount refunds the full order total.
func (h *CaptureHandler) Refund(c *gin.Context) {
	orderID := c.Param("id")

	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.refunds.Refund(c.Request.Context(), orderID, req.AmountCents)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		telemetry.Logger.Error("Error refunding order",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refund order", "order_id": orderID})
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Error, "order_id": orderID})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "refunded", "order_id": orderID})
}
