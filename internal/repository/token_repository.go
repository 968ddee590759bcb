package repository

import (
	"context"
	"database/sql"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payment_tokens (
			customer_id VARCHAR(255) NOT NULL,
			token VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (customer_id, token)
		)`,
		`CREATE TABLE IF NOT EXISTS subscription_tokens (
			subscription_id VARCHAR(255) PRIMARY KEY,
			token VARCHAR(255) NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (r *TokenRepository) Save(ctx context.Context, customerID, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_tokens (customer_id, token)
		VALUES ($1, $2)
		ON CONFLICT (customer_id, token) DO NOTHING
	`, customerID, token)
	return err
}

// UpdateSubscriptionToken points a subscription's stored billing token at the
// freshly saved payment method, so renewals bill against it.
func (r *TokenRepository) UpdateSubscriptionToken(ctx context.Context, subscriptionID, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_id, token)
		VALUES ($1, $2)
		ON CONFLICT (subscription_id) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()
	`, subscriptionID, token)
	return err
}
