package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepay/checkout-gateway/internal/models"
)

type fakeRefundAPI struct {
	calls   int
	amounts []string
}

func (f *fakeRefundAPI) RefundPayment(_ context.Context, _ string, amount models.AmountDetails) (*models.PaymentResponse, error) {
	f.calls++
	f.amounts = append(f.amounts, amount.TotalAmount)
	return &models.PaymentResponse{ID: "ref-1", Status: "PENDING"}, nil
}

func capturedOrder() *models.Order {
	return &models.Order{
		ID:                   "ord-1",
		AmountCents:          2599,
		Currency:             "USD",
		Status:               models.OrderStatusProcessing,
		TransactionID:        "txn-1",
		CaptureTransactionID: "cap-1",
	}
}

func TestCanRefund(t *testing.T) {
	svc := NewRefundService(nil, nil, nil)

	assert.True(t, svc.CanRefund(capturedOrder()))

	for _, status := range []models.OrderStatus{
		models.OrderStatusCancelled,
		models.OrderStatusRefunded,
		models.OrderStatusFailed,
		models.OrderStatusPending,
	} {
		o := capturedOrder()
		o.Status = status
		assert.False(t, svc.CanRefund(o), string(status))
	}

	o := capturedOrder()
	o.TransactionID = ""
	o.CaptureTransactionID = ""
	assert.False(t, svc.CanRefund(o), "no transaction on record")
}

func TestRefundFullAmount(t *testing.T) {
	repo := newMemOrderRepo(capturedOrder())
	api := &fakeRefundAPI{}
	svc := NewRefundService(api, repo, NewOrderLedger(repo, nil))

	result, err := svc.Refund(context.Background(), "ord-1", 0)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"25.99"}, api.amounts)
	assert.Equal(t, models.OrderStatusRefunded, repo.orders["ord-1"].Status)

	notes, _ := repo.ListNotes(context.Background(), "ord-1")
	require.Len(t, notes, 1)
	assert.Equal(t, models.NoteRefundTransaction, notes[0].NoteType)
}

func TestRefundPartialAmountKeepsStatus(t *testing.T) {
	repo := newMemOrderRepo(capturedOrder())
	api := &fakeRefundAPI{}
	svc := NewRefundService(api, repo, NewOrderLedger(repo, nil))

	result, err := svc.Refund(context.Background(), "ord-1", 500)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"5.00"}, api.amounts)
	assert.Equal(t, models.OrderStatusProcessing, repo.orders["ord-1"].Status)
}

func TestRefundIneligibleOrder(t *testing.T) {
	order := capturedOrder()
	order.Status = models.OrderStatusPending
	repo := newMemOrderRepo(order)
	api := &fakeRefundAPI{}
	svc := NewRefundService(api, repo, NewOrderLedger(repo, nil))

	result, err := svc.Refund(context.Background(), "ord-1", 0)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Zero(t, api.calls)
}
