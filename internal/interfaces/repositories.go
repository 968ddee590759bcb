package interfaces

import (
	"context"

	"github.com/vantagepay/checkout-gateway/internal/models"
)

// OrderRepository defines the contract for order ledger data access
type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	SetTransactionID(ctx context.Context, orderID, transactionID string) error
	SetCaptureTransactionID(ctx context.Context, orderID, captureTransactionID string) error
	AppendNote(ctx context.Context, note *models.OrderNote) error
	ListNotes(ctx context.Context, orderID string) ([]models.OrderNote, error)
	ListPendingReview(ctx context.Context) ([]models.Order, error)
}

// ReversalRepository records issued authorization reversals; Exists backs the
// idempotency guard on the decline path.
type ReversalRepository interface {
	Exists(ctx context.Context, orderID, transactionID string) (bool, error)
	Record(ctx context.Context, orderID, transactionID string) error
}

// TokenRepository stores reusable payment tokens returned by the processor.
type TokenRepository interface {
	Save(ctx context.Context, customerID, token string) error
	UpdateSubscriptionToken(ctx context.Context, subscriptionID, token string) error
}
