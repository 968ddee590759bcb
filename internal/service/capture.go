package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// ErrCaptureInProgress is returned when another capture for the same order
// holds the lock.
var ErrCaptureInProgress = fmt.Errorf("capture already in progress for this order")

// ProcessorCaptureAPI is the slice of the payment API client the capture
// service needs.
type ProcessorCaptureAPI interface {
	CapturePayment(ctx context.Context, paymentID string, amount models.AmountDetails) (*models.PaymentResponse, error)
}

// CaptureService settles authorized funds. Every capture is serialized per
// order through a TTL-bounded lock so duplicate triggers cannot settle twice.
type CaptureService struct {
	processor ProcessorCaptureAPI
	orders    interfaces.OrderRepository
	ledger    *OrderLedger
	lock      Locker
}

func NewCaptureService(processor ProcessorCaptureAPI, orders interfaces.OrderRepository, ledger *OrderLedger, lock Locker) *CaptureService {
	return &CaptureService{
		processor: processor,
		orders:    orders,
		ledger:    ledger,
		lock:      lock,
	}
}

// PerformCapture records settlement for a charge-flavor authorization. The
// authorization itself was submitted with capture enabled, so the response in
// hand already represents the settled transaction; only the capture metadata
// is recorded here. The per-order lock still guards against a concurrent
// manual capture.
func (s *CaptureService) PerformCapture(ctx context.Context, order *models.Order, body *models.PaymentResponse) error {
	release, acquired, err := s.lock.Acquire(ctx, order.ID)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrCaptureInProgress
	}
	defer release()

	if err := s.ledger.SetTransactionData(ctx, order, body); err != nil {
		return err
	}
	return s.ledger.SetCaptureData(ctx, order, body)
}

// CaptureOrder is the manual/bulk capture path for orders sitting on hold
// with an uncaptured authorization. It validates the order, takes the lock
// for the duration of the remote call, settles, annotates, and moves the
// order to processing.
func (s *CaptureService) CaptureOrder(ctx context.Context, orderID string) (models.Result, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "CaptureService.CaptureOrder")
	defer span.End()

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return models.Result{Success: false, Error: "invalid order id"}, err
	}
	if order.Status != models.OrderStatusOnHold {
		return models.Result{Success: false, Error: "order is not awaiting capture"}, nil
	}
	if order.TransactionID == "" {
		return models.Result{Success: false, Error: "no authorization on record"}, nil
	}

	release, acquired, err := s.lock.Acquire(ctx, order.ID)
	if err != nil {
		return models.Result{}, err
	}
	if !acquired {
		return models.Result{Success: false, Error: ErrCaptureInProgress.Error()}, nil
	}
	defer release()

	amount := models.AmountDetails{
		TotalAmount: formatAmount(order.AmountCents),
		Currency:    order.Currency,
	}
	body, err := s.processor.CapturePayment(ctx, order.TransactionID, amount)
	if err != nil {
		telemetry.Logger.Error("Error capturing payment",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return models.Result{}, err
	}

	if err := s.ledger.SetCaptureData(ctx, order, body); err != nil {
		return models.Result{}, err
	}
	if err := s.ledger.AppendNote(ctx, order, models.NoteChargeTransaction, body, models.OrderStatusProcessing); err != nil {
		return models.Result{}, err
	}

	telemetry.Logger.Info("order captured",
		zap.String("order_id", order.ID),
		zap.String("capture_transaction_id", body.ID),
	)
	return models.Result{Success: true}, nil
}
