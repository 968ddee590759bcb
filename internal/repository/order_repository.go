package repository

import (
	"context"
	"database/sql"

	"github.com/vantagepay/checkout-gateway/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(255) PRIMARY KEY,
			customer_id VARCHAR(255),
			amount_cents BIGINT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			status VARCHAR(50) NOT NULL,
			virtual BOOLEAN NOT NULL DEFAULT FALSE,
			subscription_id VARCHAR(255),
			transaction_id VARCHAR(255),
			capture_transaction_id VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_notes (
			id SERIAL PRIMARY KEY,
			order_id VARCHAR(255) NOT NULL,
			note_type VARCHAR(50) NOT NULL,
			raw_status VARCHAR(50),
			transaction_id VARCHAR(255),
			target_status VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_order_notes_order_id ON order_notes(order_id)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	var subscriptionID, transactionID, captureTransactionID sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, amount_cents, currency, status, virtual,
		       subscription_id, transaction_id, capture_transaction_id, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&o.ID, &o.CustomerID, &o.AmountCents, &o.Currency, &o.Status, &o.Virtual,
		&subscriptionID, &transactionID, &captureTransactionID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.SubscriptionID = subscriptionID.String
	o.TransactionID = transactionID.String
	o.CaptureTransactionID = captureTransactionID.String
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, amount_cents, currency, status, virtual, subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, order.ID, order.CustomerID, order.AmountCents, order.Currency, order.Status, order.Virtual, order.SubscriptionID)
	return err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	return err
}

func (r *OrderRepository) SetTransactionID(ctx context.Context, orderID, transactionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET transaction_id = $1, updated_at = NOW() WHERE id = $2`, transactionID, orderID)
	return err
}

func (r *OrderRepository) SetCaptureTransactionID(ctx context.Context, orderID, captureTransactionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET capture_transaction_id = $1, updated_at = NOW() WHERE id = $2`, captureTransactionID, orderID)
	return err
}

// AppendNote inserts the note and, when it carries a status transition,
// applies that transition in the same transaction so the annotation trail and
// order status cannot drift apart.
func (r *OrderRepository) AppendNote(ctx context.Context, note *models.OrderNote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_notes (order_id, note_type, raw_status, transaction_id, target_status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	`, note.OrderID, note.NoteType, note.RawStatus, note.TransactionID, string(note.TargetStatus)); err != nil {
		return err
	}

	if note.TargetStatus != "" {
		if _, err := tx.ExecContext(ctx, `
			UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
		`, note.TargetStatus, note.OrderID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) ListNotes(ctx context.Context, orderID string) ([]models.OrderNote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, note_type, COALESCE(raw_status, ''), COALESCE(transaction_id, ''),
		       COALESCE(target_status, ''), created_at
		FROM order_notes WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.OrderNote
	for rows.Next() {
		var n models.OrderNote
		if err := rows.Scan(&n.ID, &n.OrderID, &n.NoteType, &n.RawStatus, &n.TransactionID, &n.TargetStatus, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ListPendingReview returns orders still pending whose annotation trail ends
// in a review transaction, i.e. orders awaiting fraud-review resolution.
func (r *OrderRepository) ListPendingReview(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_id, o.amount_cents, o.currency, o.status, o.virtual,
		       COALESCE(o.subscription_id, ''), COALESCE(o.transaction_id, ''),
		       COALESCE(o.capture_transaction_id, ''), o.created_at, o.updated_at
		FROM orders o
		WHERE o.status = $1
		  AND EXISTS (
			SELECT 1 FROM order_notes n
			WHERE n.order_id = o.id AND n.note_type = $2
		  )
	`, models.OrderStatusPending, models.NoteReviewTransaction)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.AmountCents, &o.Currency, &o.Status, &o.Virtual,
			&o.SubscriptionID, &o.TransactionID, &o.CaptureTransactionID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
