package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// ProcessorRefundAPI is the slice of the payment API client the refund
// service needs.
type ProcessorRefundAPI interface {
	RefundPayment(ctx context.Context, paymentID string, amount models.AmountDetails) (*models.PaymentResponse, error)
}

// RefundService returns settled funds for eligible orders.
type RefundService struct {
	processor ProcessorRefundAPI
	orders    interfaces.OrderRepository
	ledger    *OrderLedger
}

func NewRefundService(processor ProcessorRefundAPI, orders interfaces.OrderRepository, ledger *OrderLedger) *RefundService {
	return &RefundService{
		processor: processor,
		orders:    orders,
		ledger:    ledger,
	}
}

// CanRefund reports whether the order is in a refundable state: not already
// terminal, and with a transaction on record to refund against.
func (s *RefundService) CanRefund(order *models.Order) bool {
	switch order.Status {
	case models.OrderStatusCancelled, models.OrderStatusRefunded, models.OrderStatusFailed, models.OrderStatusPending:
		return false
	}
	return order.TransactionID != "" || order.CaptureTransactionID != ""
}

// Refund refunds amountCents against the order's settled transaction. A zero
// amountCents refunds the full order amount.
func (s *RefundService) Refund(ctx context.Context, orderID string, amountCents int64) (models.Result, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return models.Result{Success: false, Error: "invalid order id"}, err
	}
	if !s.CanRefund(order) {
		return models.Result{Success: false, Error: "order cannot be refunded"}, nil
	}

	if amountCents <= 0 {
		amountCents = order.AmountCents
	}
	transactionID := order.CaptureTransactionID
	if transactionID == "" {
		transactionID = order.TransactionID
	}

	amount := models.AmountDetails{
		TotalAmount: formatAmount(amountCents),
		Currency:    order.Currency,
	}
	body, err := s.processor.RefundPayment(ctx, transactionID, amount)
	if err != nil {
		telemetry.Logger.Error("Error refunding payment",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return models.Result{}, err
	}

	targetStatus := models.OrderStatus("")
	if amountCents == order.AmountCents {
		targetStatus = models.OrderStatusRefunded
	}
	if err := s.ledger.AppendNote(ctx, order, models.NoteRefundTransaction, body, targetStatus); err != nil {
		return models.Result{}, err
	}

	telemetry.Logger.Info("order refunded",
		zap.String("order_id", order.ID),
		zap.Int64("amount_cents", amountCents),
	)
	return models.Result{Success: true}, nil
}
