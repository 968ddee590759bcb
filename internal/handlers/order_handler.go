package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
)

type OrderHandler struct {
	orders interfaces.OrderRepository
}

func NewOrderHandler(orders interfaces.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GetOrder returns the order record with its full annotation trail.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	notes, err := h.orders.ListNotes(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"notes": notes,
	})
}
