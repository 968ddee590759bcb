package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// TokenService persists processor-issued payment instruments for reuse in
// renewal and subscription billing.
type TokenService struct {
	tokens interfaces.TokenRepository
}

func NewTokenService(tokens interfaces.TokenRepository) *TokenService {
	return &TokenService{tokens: tokens}
}

// SavePaymentMethod extracts the payment instrument token from an approved
// authorization response and stores it for the order's customer.
func (s *TokenService) SavePaymentMethod(ctx context.Context, order *models.Order, body *models.PaymentResponse) (models.SavedPaymentMethod, error) {
	if body == nil || body.TokenInformation == nil || body.TokenInformation.PaymentInstrument == nil {
		return models.SavedPaymentMethod{}, fmt.Errorf("response carries no payment instrument for order %s", order.ID)
	}

	token := body.TokenInformation.PaymentInstrument.ID
	if token == "" {
		return models.SavedPaymentMethod{}, fmt.Errorf("empty payment instrument id for order %s", order.ID)
	}

	if err := s.tokens.Save(ctx, order.CustomerID, token); err != nil {
		return models.SavedPaymentMethod{}, err
	}

	telemetry.Logger.Info("payment method saved",
		zap.String("order_id", order.ID),
		zap.String("customer_id", order.CustomerID),
	)
	return models.SavedPaymentMethod{Status: true, Token: token}, nil
}

// UpdateOrderSubscriptionToken points the order's subscription at the newly
// saved token so future renewals bill against it.
func (s *TokenService) UpdateOrderSubscriptionToken(ctx context.Context, order *models.Order, token string) error {
	if order.SubscriptionID == "" {
		return nil
	}
	if err := s.tokens.UpdateSubscriptionToken(ctx, order.SubscriptionID, token); err != nil {
		return err
	}
	telemetry.Logger.Info("subscription token updated",
		zap.String("order_id", order.ID),
		zap.String("subscription_id", order.SubscriptionID),
	)
	return nil
}
