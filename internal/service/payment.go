package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/config"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

const unableToProcessHeader = "Unable to process unified checkout payment transaction"

// ProcessorPaymentAPI is the slice of the payment API client the payment
// service needs.
type ProcessorPaymentAPI interface {
	CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.AuthorizationResponse, error)
}

// PaymentService runs one unified checkout transaction end to end: build the
// authorization request from the transient token, call the processor,
// classify the response, dispatch the outcome.
type PaymentService struct {
	processor  ProcessorPaymentAPI
	dispatcher *Dispatcher
	settings   config.Settings
}

func NewPaymentService(processor ProcessorPaymentAPI, dispatcher *Dispatcher, settings config.Settings) *PaymentService {
	return &PaymentService{
		processor:  processor,
		dispatcher: dispatcher,
		settings:   settings,
	}
}

// DoTransaction is the outermost call boundary of the transaction flow. Any
// failure while building or sending the outbound request is logged under a
// fixed header and surfaced as a typed error; callers never see an absent
// result.
func (s *PaymentService) DoTransaction(ctx context.Context, order *models.Order, transientToken string, saveCard bool) (result models.Result, err error) {
	ctx, span := telemetry.Tracer.Start(ctx, "PaymentService.DoTransaction")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			telemetry.Logger.Error(unableToProcessHeader,
				zap.String("order_id", order.ID),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("payment transaction failed for order %s", order.ID)
		}
	}()

	req := s.buildPaymentRequest(order, transientToken, saveCard)

	resp, err := s.processor.CreatePayment(ctx, req)
	if err != nil {
		telemetry.Logger.Error(unableToProcessHeader,
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return models.Result{}, err
	}

	outcome := Classify(resp)
	return s.dispatcher.Dispatch(ctx, order, outcome, resp, s.settings, saveCard)
}

// buildPaymentRequest assembles the outbound authorization payload. Capture
// is requested up front when the merchant runs charge transactions, or when
// the order is virtual and virtual capture is enabled, so approval and
// settlement happen in one call.
func (s *PaymentService) buildPaymentRequest(order *models.Order, transientToken string, saveCard bool) *models.CreatePaymentRequest {
	capture := s.settings.IsChargeType() || (s.settings.EnableVirtualCapture && order.Virtual)

	req := &models.CreatePaymentRequest{
		ClientReferenceInformation: models.ClientReferenceInformation{
			Code: fmt.Sprintf("%s-%s", order.ID, uuid.NewString()),
		},
		ProcessingInformation: models.ProcessingInformation{
			Capture:           capture,
			CommerceIndicator: "internet",
		},
		TokenInformation: &models.TokenInformation{
			TransientTokenJWT: transientToken,
		},
		OrderInformation: models.OrderInformation{
			AmountDetails: models.AmountDetails{
				TotalAmount: formatAmount(order.AmountCents),
				Currency:    order.Currency,
			},
		},
		BuyerInformation: &models.BuyerInformation{
			MerchantCustomerID: order.CustomerID,
		},
	}

	if saveCard && s.settings.Tokenization {
		req.ProcessingInformation.ActionList = []string{"TOKEN_CREATE"}
	}

	return req
}
