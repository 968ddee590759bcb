package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepay/checkout-gateway/internal/models"
)

type fakeReviewAPI struct {
	statuses map[string]string
	calls    int
}

func (f *fakeReviewAPI) GetPayment(_ context.Context, paymentID string) (*models.PaymentResponse, error) {
	f.calls++
	return &models.PaymentResponse{ID: paymentID, Status: f.statuses[paymentID]}, nil
}

func reviewOrder(id, txnID string) *models.Order {
	return &models.Order{
		ID:            id,
		AmountCents:   1000,
		Currency:      "USD",
		Status:        models.OrderStatusPending,
		TransactionID: txnID,
	}
}

func reviewedRepo(orders ...*models.Order) *memOrderRepo {
	repo := newMemOrderRepo(orders...)
	for _, o := range orders {
		repo.notes = append(repo.notes, models.OrderNote{OrderID: o.ID, NoteType: models.NoteReviewTransaction})
	}
	return repo
}

func TestReviewPollerResolvesAcceptedReview(t *testing.T) {
	repo := reviewedRepo(reviewOrder("ord-1", "txn-1"))
	api := &fakeReviewAPI{statuses: map[string]string{"txn-1": models.StatusAuthorized}}

	p := NewReviewPoller(api, repo, NewOrderLedger(repo, nil), 0, false)
	p.pollOnce(context.Background())

	assert.Equal(t, models.OrderStatusOnHold, repo.orders["ord-1"].Status)
}

func TestReviewPollerCapturesForChargeMerchants(t *testing.T) {
	repo := reviewedRepo(reviewOrder("ord-1", "txn-1"))
	api := &fakeReviewAPI{statuses: map[string]string{"txn-1": models.StatusAuthorized}}

	p := NewReviewPoller(api, repo, NewOrderLedger(repo, nil), 0, true)
	p.pollOnce(context.Background())

	assert.Equal(t, models.OrderStatusProcessing, repo.orders["ord-1"].Status)
	assert.Equal(t, "txn-1", repo.orders["ord-1"].CaptureTransactionID)
}

func TestReviewPollerCancelsRejectedReview(t *testing.T) {
	repo := reviewedRepo(reviewOrder("ord-1", "txn-1"))
	api := &fakeReviewAPI{statuses: map[string]string{"txn-1": models.StatusDeclined}}

	p := NewReviewPoller(api, repo, NewOrderLedger(repo, nil), 0, false)
	p.pollOnce(context.Background())

	assert.Equal(t, models.OrderStatusCancelled, repo.orders["ord-1"].Status)
}

func TestReviewPollerLeavesUndecidedOrders(t *testing.T) {
	repo := reviewedRepo(reviewOrder("ord-1", "txn-1"))
	api := &fakeReviewAPI{statuses: map[string]string{"txn-1": models.StatusPendingReview}}

	p := NewReviewPoller(api, repo, NewOrderLedger(repo, nil), 0, false)
	p.pollOnce(context.Background())

	require.Equal(t, 1, api.calls)
	assert.Equal(t, models.OrderStatusPending, repo.orders["ord-1"].Status)
}

func TestReviewPollerSkipsOrdersWithoutTransaction(t *testing.T) {
	repo := reviewedRepo(reviewOrder("ord-1", ""))
	api := &fakeReviewAPI{statuses: map[string]string{}}

	p := NewReviewPoller(api, repo, NewOrderLedger(repo, nil), 0, false)
	p.pollOnce(context.Background())

	assert.Zero(t, api.calls)
	assert.Equal(t, models.OrderStatusPending, repo.orders["ord-1"].Status)
}
