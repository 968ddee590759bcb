package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// ProcessorReviewAPI is the slice of the payment API client the review poller
// needs.
type ProcessorReviewAPI interface {
	GetPayment(ctx context.Context, paymentID string) (*models.PaymentResponse, error)
}

// ReviewPoller periodically re-queries the processor for orders parked in
// fraud review and finalizes the ones that have been decided: accepted
// reviews become held authorizations (or settled charges), rejected ones are
// cancelled.
type ReviewPoller struct {
	processor ProcessorReviewAPI
	orders    interfaces.OrderRepository
	ledger    *OrderLedger
	interval  time.Duration
	isCharge  bool
}

func NewReviewPoller(processor ProcessorReviewAPI, orders interfaces.OrderRepository, ledger *OrderLedger, interval time.Duration, isCharge bool) *ReviewPoller {
	if interval < 15*time.Minute {
		interval = 15 * time.Minute
	}
	return &ReviewPoller{
		processor: processor,
		orders:    orders,
		ledger:    ledger,
		interval:  interval,
		isCharge:  isCharge,
	}
}

// Run polls until ctx is cancelled.
func (p *ReviewPoller) Run(ctx context.Context) {
	telemetry.Logger.Info("Started review poller", zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			telemetry.Logger.Info("Review poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *ReviewPoller) pollOnce(ctx context.Context) {
	orders, err := p.orders.ListPendingReview(ctx)
	if err != nil {
		telemetry.Logger.Error("Error listing orders in review", zap.Error(err))
		return
	}

	for i := range orders {
		if err := p.resolveOrder(ctx, &orders[i]); err != nil {
			telemetry.Logger.Error("Error resolving review order",
				zap.String("order_id", orders[i].ID),
				zap.Error(err),
			)
		}
	}
}

func (p *ReviewPoller) resolveOrder(ctx context.Context, order *models.Order) error {
	if order.TransactionID == "" {
		return nil
	}

	body, err := p.processor.GetPayment(ctx, order.TransactionID)
	if err != nil {
		return err
	}

	switch body.Status {
	case models.StatusAuthorized:
		if p.isCharge {
			if err := p.ledger.SetCaptureData(ctx, order, body); err != nil {
				return err
			}
			return p.ledger.AppendNote(ctx, order, models.NoteChargeTransaction, body, models.OrderStatusProcessing)
		}
		return p.ledger.AppendNote(ctx, order, models.NoteAuthorizeTransaction, body, models.OrderStatusOnHold)
	case models.StatusDeclined, models.StatusAuthorizedRiskDeclined:
		return p.ledger.AppendNote(ctx, order, models.NoteRejectTransaction, body, models.OrderStatusCancelled)
	default:
		// Still under review; try again next cycle.
		return nil
	}
}
