package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepay/checkout-gateway/internal/config"
	"github.com/vantagepay/checkout-gateway/internal/models"
)

type noteEntry struct {
	noteType models.NoteType
	target   models.OrderStatus
}

type fakeLedger struct {
	notes        []noteEntry
	txnDataCalls int
	captureCalls int
}

func (f *fakeLedger) AppendNote(_ context.Context, order *models.Order, noteType models.NoteType, _ *models.PaymentResponse, target models.OrderStatus) error {
	f.notes = append(f.notes, noteEntry{noteType, target})
	if target != "" {
		order.Status = target
	}
	return nil
}

func (f *fakeLedger) SetTransactionData(context.Context, *models.Order, *models.PaymentResponse) error {
	f.txnDataCalls++
	return nil
}

func (f *fakeLedger) SetCaptureData(context.Context, *models.Order, *models.PaymentResponse) error {
	f.captureCalls++
	return nil
}

type fakeReverser struct {
	exists        bool
	reversalCalls int
}

func (f *fakeReverser) AuthReversalExists(context.Context, *models.Order, *models.PaymentResponse) (bool, error) {
	return f.exists, nil
}

func (f *fakeReverser) DoAuthReversal(context.Context, *models.Order, *models.PaymentResponse) error {
	f.reversalCalls++
	return nil
}

type fakeCapturer struct {
	captureCalls int
}

func (f *fakeCapturer) PerformCapture(context.Context, *models.Order, *models.PaymentResponse) error {
	f.captureCalls++
	return nil
}

type fakeTokens struct {
	saveCalls int
	subCalls  int
	saved     models.SavedPaymentMethod
}

func (f *fakeTokens) SavePaymentMethod(context.Context, *models.Order, *models.PaymentResponse) (models.SavedPaymentMethod, error) {
	f.saveCalls++
	return f.saved, nil
}

func (f *fakeTokens) UpdateOrderSubscriptionToken(context.Context, *models.Order, string) error {
	f.subCalls++
	return nil
}

type fakeFormatter struct {
	calls int
}

func (f *fakeFormatter) GetErrorMessage(*models.ClassifiedOutcome, *models.Order) models.Result {
	f.calls++
	return models.Result{Success: false, Error: "payment could not be processed"}
}

type dispatcherFixture struct {
	dispatcher *Dispatcher
	ledger     *fakeLedger
	reverser   *fakeReverser
	capturer   *fakeCapturer
	tokens     *fakeTokens
	formatter  *fakeFormatter
}

func newDispatcherFixture() *dispatcherFixture {
	f := &dispatcherFixture{
		ledger:    &fakeLedger{},
		reverser:  &fakeReverser{},
		capturer:  &fakeCapturer{},
		tokens:    &fakeTokens{saved: models.SavedPaymentMethod{Status: true, Token: "tok_123"}},
		formatter: &fakeFormatter{},
	}
	f.dispatcher = NewDispatcher(f.ledger, f.reverser, f.capturer, f.tokens, f.formatter)
	return f
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:          "ord-1",
		CustomerID:  "cust-1",
		AmountCents: 2599,
		Currency:    "USD",
		Status:      models.OrderStatusPending,
	}
}

func authResponse(status string) *models.AuthorizationResponse {
	return &models.AuthorizationResponse{
		HTTPStatusCode: 201,
		Body:           &models.PaymentResponse{ID: "txn-1", Status: status},
	}
}

func chargeSettings() config.Settings {
	return config.Settings{TransactionType: config.TransactionTypeCharge, Tokenization: true}
}

func authorizeSettings() config.Settings {
	return config.Settings{TransactionType: config.TransactionTypeAuthorize, Tokenization: true}
}

func TestDispatchNoResponse(t *testing.T) {
	f := newDispatcherFixture()
	order := pendingOrder()

	result, err := f.dispatcher.Dispatch(context.Background(), order, models.ClassifiedOutcome{NoResponse: true}, nil, chargeSettings(), true)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Equal(t, 1, f.formatter.calls)
	// No order mutation on the no-response path.
	assert.Empty(t, f.ledger.notes)
	assert.Zero(t, f.ledger.txnDataCalls)
	assert.Zero(t, f.tokens.saveCalls)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestDispatchDecline(t *testing.T) {
	f := newDispatcherFixture()
	order := pendingOrder()
	resp := authResponse(models.StatusDeclined)

	result, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, chargeSettings(), true)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, []noteEntry{
		{models.NoteTransactionData, ""},
		{models.NoteAuthReject, ""},
		{models.NoteRejectTransaction, models.OrderStatusCancelled},
	}, f.ledger.notes)
	assert.Equal(t, 1, f.reverser.reversalCalls)
	assert.Zero(t, f.tokens.saveCalls, "save must not run on the decline path")
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}

func TestDispatchDeclineReversalIsIdempotent(t *testing.T) {
	f := newDispatcherFixture()
	f.reverser.exists = true
	order := pendingOrder()
	resp := authResponse(models.StatusDeclined)

	result, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, chargeSettings(), false)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Zero(t, f.reverser.reversalCalls, "a recorded reversal must not be issued again")
}

func TestDispatchChargeFlavor(t *testing.T) {
	f := newDispatcherFixture()
	order := pendingOrder()
	resp := authResponse(models.StatusAuthorized)

	result, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, chargeSettings(), true)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, f.tokens.saveCalls)
	assert.Equal(t, 1, f.capturer.captureCalls)
	assert.Equal(t, []noteEntry{
		{models.NoteChargeApproved, ""},
		{models.NoteChargeTransaction, models.OrderStatusProcessing},
	}, f.ledger.notes)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestDispatchAuthorizeFlavor(t *testing.T) {
	f := newDispatcherFixture()
	order := pendingOrder()
	resp := authResponse(models.StatusAuthorized)

	result, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, authorizeSettings(), false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, f.capturer.captureCalls)
	assert.Equal(t, []noteEntry{
		{models.NoteAuthApproved, ""},
		{models.NoteAuthorizeTransaction, models.OrderStatusOnHold},
	}, f.ledger.notes)
	assert.Equal(t, models.OrderStatusOnHold, order.Status)
}

func TestDispatchVirtualOrderCapturesImmediately(t *testing.T) {
	f := newDispatcherFixture()
	order := pendingOrder()
	order.Virtual = true
	resp := authResponse(models.StatusAuthorized)

	settings := authorizeSettings()
	settings.EnableVirtualCapture = true

	result, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, settings, false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, f.capturer.captureCalls)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestDispatchReviewLeavesStatusUntouched(t *testing.T) {
	f := newDispatcherFixture()
	order := pendingOrder()
	resp := authResponse(models.StatusPendingReview)

	result, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, chargeSettings(), true)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []noteEntry{
		{models.NoteReviewMessage, ""},
		{models.NoteReviewData, ""},
		{models.NoteReviewTransaction, ""},
	}, f.ledger.notes)
	for _, n := range f.ledger.notes {
		assert.Empty(t, n.target, "review notes must not carry a status transition")
	}
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Zero(t, f.tokens.saveCalls, "save must not run on the review path")
	assert.Zero(t, f.capturer.captureCalls)
}

func TestSaveCardGating(t *testing.T) {
	t.Run("not requested", func(t *testing.T) {
		f := newDispatcherFixture()
		resp := authResponse(models.StatusAuthorized)
		_, err := f.dispatcher.Dispatch(context.Background(), pendingOrder(), Classify(resp), resp, chargeSettings(), false)
		require.NoError(t, err)
		assert.Zero(t, f.tokens.saveCalls)
	})

	t.Run("requested on authorized", func(t *testing.T) {
		f := newDispatcherFixture()
		resp := authResponse(models.StatusAuthorized)
		_, err := f.dispatcher.Dispatch(context.Background(), pendingOrder(), Classify(resp), resp, authorizeSettings(), true)
		require.NoError(t, err)
		assert.Equal(t, 1, f.tokens.saveCalls)
	})

	t.Run("requested on review", func(t *testing.T) {
		f := newDispatcherFixture()
		resp := authResponse(models.StatusAuthorizedPendingReview)
		_, err := f.dispatcher.Dispatch(context.Background(), pendingOrder(), Classify(resp), resp, chargeSettings(), true)
		require.NoError(t, err)
		assert.Zero(t, f.tokens.saveCalls)
	})

	t.Run("requested on decline", func(t *testing.T) {
		f := newDispatcherFixture()
		resp := authResponse(models.StatusDeclined)
		_, err := f.dispatcher.Dispatch(context.Background(), pendingOrder(), Classify(resp), resp, chargeSettings(), true)
		require.NoError(t, err)
		assert.Zero(t, f.tokens.saveCalls)
	})
}

func TestSubscriptionTokenPropagation(t *testing.T) {
	t.Run("propagates when enabled", func(t *testing.T) {
		f := newDispatcherFixture()
		order := pendingOrder()
		order.SubscriptionID = "sub-1"
		resp := authResponse(models.StatusAuthorized)

		settings := chargeSettings()
		settings.SubscriptionsEnabled = true

		_, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, settings, true)
		require.NoError(t, err)
		assert.Equal(t, 1, f.tokens.subCalls)
	})

	t.Run("skipped when subscriptions disabled", func(t *testing.T) {
		f := newDispatcherFixture()
		order := pendingOrder()
		order.SubscriptionID = "sub-1"
		resp := authResponse(models.StatusAuthorized)

		_, err := f.dispatcher.Dispatch(context.Background(), order, Classify(resp), resp, chargeSettings(), true)
		require.NoError(t, err)
		assert.Zero(t, f.tokens.subCalls)
	})

	t.Run("skipped when order has no subscription", func(t *testing.T) {
		f := newDispatcherFixture()
		resp := authResponse(models.StatusAuthorized)

		settings := chargeSettings()
		settings.SubscriptionsEnabled = true

		_, err := f.dispatcher.Dispatch(context.Background(), pendingOrder(), Classify(resp), resp, settings, true)
		require.NoError(t, err)
		assert.Zero(t, f.tokens.subCalls)
	})
}
