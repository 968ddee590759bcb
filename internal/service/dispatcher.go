package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/config"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// Ledger is the write side of the order record as seen by the dispatcher.
type Ledger interface {
	AppendNote(ctx context.Context, order *models.Order, noteType models.NoteType, body *models.PaymentResponse, targetStatus models.OrderStatus) error
	SetTransactionData(ctx context.Context, order *models.Order, body *models.PaymentResponse) error
	SetCaptureData(ctx context.Context, order *models.Order, body *models.PaymentResponse) error
}

// Reverser issues authorization reversals and answers whether one is already
// on record for a given order and response.
type Reverser interface {
	AuthReversalExists(ctx context.Context, order *models.Order, body *models.PaymentResponse) (bool, error)
	DoAuthReversal(ctx context.Context, order *models.Order, body *models.PaymentResponse) error
}

// Capturer settles charge-flavor transactions.
type Capturer interface {
	PerformCapture(ctx context.Context, order *models.Order, body *models.PaymentResponse) error
}

// TokenSaver persists reusable payment tokens and propagates them to
// subscriptions.
type TokenSaver interface {
	SavePaymentMethod(ctx context.Context, order *models.Order, body *models.PaymentResponse) (models.SavedPaymentMethod, error)
	UpdateOrderSubscriptionToken(ctx context.Context, order *models.Order, token string) error
}

// ErrorFormatter turns an uninterpretable outcome into the shopper-facing
// result.
type ErrorFormatter interface {
	GetErrorMessage(outcome *models.ClassifiedOutcome, order *models.Order) models.Result
}

// Dispatcher drives the side effects for one classified authorization
// outcome: save-payment-method, capture, order annotation and reversal, in a
// strict sequence, each exactly once.
type Dispatcher struct {
	ledger   Ledger
	reverser Reverser
	capturer Capturer
	tokens   TokenSaver
	errors   ErrorFormatter
}

func NewDispatcher(ledger Ledger, reverser Reverser, capturer Capturer, tokens TokenSaver, errors ErrorFormatter) *Dispatcher {
	return &Dispatcher{
		ledger:   ledger,
		reverser: reverser,
		capturer: capturer,
		tokens:   tokens,
		errors:   errors,
	}
}

// Dispatch evaluates the outcome decision tree in order: no-response, decline,
// settled approval, review. Annotations for a single order are appended
// sequentially; later notes depend on the status set by earlier ones.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	order *models.Order,
	outcome models.ClassifiedOutcome,
	resp *models.AuthorizationResponse,
	settings config.Settings,
	saveCardRequested bool,
) (models.Result, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "Dispatcher.Dispatch")
	defer span.End()

	if outcome.NoResponse {
		// No order mutation on this path; the ledger is never touched.
		telemetry.TransactionOutcomes.WithLabelValues("error").Inc()
		return d.errors.GetErrorMessage(&outcome, order), nil
	}

	body := resp.Body

	if !outcome.Approved {
		return d.dispatchDecline(ctx, order, body)
	}

	if outcome.StatusApproved {
		return d.dispatchApproved(ctx, order, outcome, body, settings, saveCardRequested)
	}

	return d.dispatchReview(ctx, order, body)
}

func (d *Dispatcher) dispatchDecline(ctx context.Context, order *models.Order, body *models.PaymentResponse) (models.Result, error) {
	if err := d.recordTransactionData(ctx, order, body); err != nil {
		return models.Result{}, err
	}
	if err := d.ledger.AppendNote(ctx, order, models.NoteAuthReject, body, ""); err != nil {
		return models.Result{}, err
	}
	if err := d.ledger.AppendNote(ctx, order, models.NoteRejectTransaction, body, models.OrderStatusCancelled); err != nil {
		return models.Result{}, err
	}

	// Duplicate delivery of the same decline must not reverse twice.
	exists, err := d.reverser.AuthReversalExists(ctx, order, body)
	if err != nil {
		return models.Result{}, fmt.Errorf("reversal lookup: %w", err)
	}
	if !exists {
		if err := d.reverser.DoAuthReversal(ctx, order, body); err != nil {
			return models.Result{}, fmt.Errorf("auth reversal: %w", err)
		}
	}

	telemetry.TransactionOutcomes.WithLabelValues("declined").Inc()
	telemetry.Logger.Info("transaction declined",
		zap.String("order_id", order.ID),
		zap.String("status", body.Status),
	)
	return models.Result{Success: false, Error: "transaction declined"}, nil
}

func (d *Dispatcher) dispatchApproved(
	ctx context.Context,
	order *models.Order,
	outcome models.ClassifiedOutcome,
	body *models.PaymentResponse,
	settings config.Settings,
	saveCardRequested bool,
) (models.Result, error) {
	// Card save happens only on the immediate-authorize status, never on
	// review or decline paths.
	if saveCardRequested && outcome.RawStatus == models.StatusAuthorized {
		saved, err := d.tokens.SavePaymentMethod(ctx, order, body)
		if err != nil {
			telemetry.Logger.Error("Error saving payment method",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		} else if saved.Status && saved.Token != "" && order.SubscriptionID != "" && settings.SubscriptionsEnabled {
			if err := d.tokens.UpdateOrderSubscriptionToken(ctx, order, saved.Token); err != nil {
				telemetry.Logger.Error("Error updating subscription token",
					zap.String("order_id", order.ID),
					zap.Error(err),
				)
			}
		}
	}

	isCharge := settings.IsChargeType() || (settings.EnableVirtualCapture && order.Virtual)

	flavorNote := models.NoteAuthApproved
	if isCharge {
		flavorNote = models.NoteChargeApproved
	}
	if err := d.ledger.AppendNote(ctx, order, flavorNote, body, ""); err != nil {
		return models.Result{}, err
	}

	if isCharge {
		if err := d.capturer.PerformCapture(ctx, order, body); err != nil {
			return models.Result{}, fmt.Errorf("capture: %w", err)
		}
		if err := d.ledger.AppendNote(ctx, order, models.NoteChargeTransaction, body, models.OrderStatusProcessing); err != nil {
			return models.Result{}, err
		}
		telemetry.TransactionOutcomes.WithLabelValues("charge").Inc()
	} else {
		if err := d.ledger.SetTransactionData(ctx, order, body); err != nil {
			return models.Result{}, err
		}
		if err := d.ledger.AppendNote(ctx, order, models.NoteAuthorizeTransaction, body, models.OrderStatusOnHold); err != nil {
			return models.Result{}, err
		}
		telemetry.TransactionOutcomes.WithLabelValues("authorize").Inc()
	}

	return models.Result{Success: true}, nil
}

// dispatchReview handles approved-but-held transactions. The order keeps its
// current pending status; resolution is deferred to the review poller or a
// manual decision.
func (d *Dispatcher) dispatchReview(ctx context.Context, order *models.Order, body *models.PaymentResponse) (models.Result, error) {
	if err := d.ledger.AppendNote(ctx, order, models.NoteReviewMessage, body, ""); err != nil {
		return models.Result{}, err
	}
	if err := d.recordReviewData(ctx, order, body); err != nil {
		return models.Result{}, err
	}
	if err := d.ledger.AppendNote(ctx, order, models.NoteReviewTransaction, body, ""); err != nil {
		return models.Result{}, err
	}

	telemetry.TransactionOutcomes.WithLabelValues("review").Inc()
	telemetry.Logger.Info("transaction held for review",
		zap.String("order_id", order.ID),
		zap.String("status", body.Status),
	)
	return models.Result{Success: true}, nil
}

func (d *Dispatcher) recordTransactionData(ctx context.Context, order *models.Order, body *models.PaymentResponse) error {
	if err := d.ledger.SetTransactionData(ctx, order, body); err != nil {
		return err
	}
	return d.ledger.AppendNote(ctx, order, models.NoteTransactionData, body, "")
}

func (d *Dispatcher) recordReviewData(ctx context.Context, order *models.Order, body *models.PaymentResponse) error {
	if err := d.ledger.SetTransactionData(ctx, order, body); err != nil {
		return err
	}
	return d.ledger.AppendNote(ctx, order, models.NoteReviewData, body, "")
}
