package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// ProcessorReversalAPI is the slice of the payment API client the reversal
// service needs.
type ProcessorReversalAPI interface {
	ReverseAuthorization(ctx context.Context, paymentID string, amount models.AmountDetails, reason string) (*models.PaymentResponse, error)
}

// ReversalService cancels held authorizations that will not be captured and
// keeps a durable record of every reversal issued, so a redelivered decline
// cannot reverse the same authorization twice.
type ReversalService struct {
	processor ProcessorReversalAPI
	reversals interfaces.ReversalRepository
}

func NewReversalService(processor ProcessorReversalAPI, reversals interfaces.ReversalRepository) *ReversalService {
	return &ReversalService{
		processor: processor,
		reversals: reversals,
	}
}

func (s *ReversalService) AuthReversalExists(ctx context.Context, order *models.Order, body *models.PaymentResponse) (bool, error) {
	if body == nil || body.ID == "" {
		return false, nil
	}
	return s.reversals.Exists(ctx, order.ID, body.ID)
}

func (s *ReversalService) DoAuthReversal(ctx context.Context, order *models.Order, body *models.PaymentResponse) error {
	if body == nil || body.ID == "" {
		return fmt.Errorf("no transaction id to reverse for order %s", order.ID)
	}

	amount := models.AmountDetails{
		TotalAmount: formatAmount(order.AmountCents),
		Currency:    order.Currency,
	}
	if _, err := s.processor.ReverseAuthorization(ctx, body.ID, amount, "transaction declined"); err != nil {
		return err
	}

	if err := s.reversals.Record(ctx, order.ID, body.ID); err != nil {
		return err
	}

	telemetry.ReversalCalls.Inc()
	telemetry.Logger.Info("authorization reversed",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", body.ID),
	)
	return nil
}

// formatAmount renders cents as a decimal amount string for the processor.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
