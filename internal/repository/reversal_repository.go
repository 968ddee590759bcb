package repository

import (
	"context"
	"database/sql"
)

type ReversalRepository struct {
	db *sql.DB
}

func NewReversalRepository(db *sql.DB) *ReversalRepository {
	return &ReversalRepository{db: db}
}

func (r *ReversalRepository) InitDB() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS auth_reversals (
			order_id VARCHAR(255) NOT NULL,
			transaction_id VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (order_id, transaction_id)
		)`)
	return err
}

func (r *ReversalRepository) Exists(ctx context.Context, orderID, transactionID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM auth_reversals WHERE order_id = $1 AND transaction_id = $2
		)`, orderID, transactionID).Scan(&exists)
	return exists, err
}

func (r *ReversalRepository) Record(ctx context.Context, orderID, transactionID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_reversals (order_id, transaction_id)
		VALUES ($1, $2)
		ON CONFLICT (order_id, transaction_id) DO NOTHING
	`, orderID, transactionID)
	return err
}
