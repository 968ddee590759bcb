package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/service"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

type checkoutRequest struct {
	TransientToken string `json:"transient_token" binding:"required"`
	SaveCard       bool   `json:"save_card"`
}

type CheckoutHandler struct {
	orders   interfaces.OrderRepository
	payments *service.PaymentService
}

func NewCheckoutHandler(orders interfaces.OrderRepository, payments *service.PaymentService) *CheckoutHandler {
	return &CheckoutHandler{
		orders:   orders,
		payments: payments,
	}
}

// Pay runs the unified checkout transaction for a pending order using the
// short-lived client-side token from the hosted checkout widget.
func (h *CheckoutHandler) Pay(c *gin.Context) {
	orderID := c.Param("id")

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.Logger.Error("Error decoding checkout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}
	if order.Status != models.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "order is not payable", "status": order.Status})
		return
	}
	if order.AmountCents <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order amount must be positive"})
		return
	}

	result, err := h.payments.DoTransaction(c.Request.Context(), order, req.TransientToken, req.SaveCard)
	if err != nil {
		telemetry.Logger.Error("Error processing checkout",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "failed to process payment",
			"order_id": orderID,
		})
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPaymentRequired
	}
	c.JSON(status, gin.H{
		"order_id":     orderID,
		"order_status": order.Status,
		"success":      result.Success,
		"error":        result.Error,
	})
}
