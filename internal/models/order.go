package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusOnHold     OrderStatus = "ON_HOLD"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
	OrderStatusFailed     OrderStatus = "FAILED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// NoteType tags an order note with the transaction event it records.
type NoteType string

const (
	NoteChargeApproved       NoteType = "CHARGE_APPROVED"
	NoteAuthApproved         NoteType = "AUTH_APPROVED"
	NoteChargeTransaction    NoteType = "CHARGE_TRANSACTION"
	NoteAuthorizeTransaction NoteType = "AUTHORIZE_TRANSACTION"
	NoteReviewMessage        NoteType = "REVIEW_MESSAGE"
	NoteReviewTransaction    NoteType = "REVIEW_TRANSACTION"
	NoteAuthReject           NoteType = "AUTH_REJECT"
	NoteRejectTransaction    NoteType = "REJECT_TRANSACTION"
	NoteTransactionData      NoteType = "TRANSACTION_DATA"
	NoteReviewData           NoteType = "REVIEW_DATA"
	NoteRefundTransaction    NoteType = "REFUND_TRANSACTION"
)

type Order struct {
	ID                   string      `json:"order_id"`
	CustomerID           string      `json:"customer_id"`
	AmountCents          int64       `json:"amount_cents"`
	Currency             string      `json:"currency"`
	Status               OrderStatus `json:"status"`
	Virtual              bool        `json:"virtual"`
	SubscriptionID       string      `json:"subscription_id,omitempty"`
	TransactionID        string      `json:"transaction_id,omitempty"`
	CaptureTransactionID string      `json:"capture_transaction_id,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// OrderNote is one append-only entry in the order's annotation trail.
// TargetStatus is empty when the note carries no status transition.
type OrderNote struct {
	ID            int64       `json:"id"`
	OrderID       string      `json:"order_id"`
	NoteType      NoteType    `json:"note_type"`
	RawStatus     string      `json:"raw_status,omitempty"`
	TransactionID string      `json:"transaction_id,omitempty"`
	TargetStatus  OrderStatus `json:"target_status,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// SavedPaymentMethod is the reusable token handed back by the processor
// when card save was requested on an approved transaction.
type SavedPaymentMethod struct {
	Status bool   `json:"status"`
	Token  string `json:"token"`
}

// OrderEvent is published to Kafka for every annotation appended to an order.
type OrderEvent struct {
	OrderID       string      `json:"order_id"`
	NoteType      NoteType    `json:"note_type"`
	RawStatus     string      `json:"raw_status,omitempty"`
	TransactionID string      `json:"transaction_id,omitempty"`
	TargetStatus  OrderStatus `json:"target_status,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}
