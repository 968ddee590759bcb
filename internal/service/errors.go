package service

import (
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// ShopperErrorFormatter produces the generic result shown to the shopper when
// the processor response could not be interpreted. Granular failure reasons
// stay in the merchant's log only.
type ShopperErrorFormatter struct{}

func NewShopperErrorFormatter() *ShopperErrorFormatter {
	return &ShopperErrorFormatter{}
}

func (f *ShopperErrorFormatter) GetErrorMessage(outcome *models.ClassifiedOutcome, order *models.Order) models.Result {
	msg := "An error occurred while processing the payment. Please try again."

	fields := []zap.Field{zap.String("order_id", order.ID)}
	if outcome != nil && outcome.NoResponse {
		fields = append(fields, zap.Bool("no_response", true))
	} else if outcome != nil {
		fields = append(fields, zap.String("status", outcome.RawStatus))
	}
	telemetry.Logger.Error("payment error returned to shopper", fields...)

	return models.Result{Success: false, Error: msg}
}
