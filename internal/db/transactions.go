package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hypergigs/internal/types"
)

const transactionColumns = `id, type, category, payer_id, payee_id, amount, currency, platform_fee, payout_amount,
	engagement_id, job_application_id, COALESCE(payment_method, ''), COALESCE(stripe_payment_id, ''), status,
	COALESCE(description, ''), metadata, completed_at, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*types.Transaction, error) {
	var (
		tx          types.Transaction
		status      string
		metadataRaw []byte
	)
	err := row.Scan(&tx.ID, &tx.Type, &tx.Category, &tx.PayerID, &tx.PayeeID, &tx.Amount, &tx.Currency,
		&tx.PlatformFee, &tx.PayoutAmount, &tx.EngagementID, &tx.JobApplicationID, &tx.PaymentMethod,
		&tx.StripePaymentID, &status, &tx.Description, &metadataRaw, &tx.CompletedAt, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	tx.Status = types.TransactionStatus(status)
	tx.Metadata = map[string]any{}
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata of %s: %w", tx.ID, err)
		}
	}
	return &tx, nil
}

// CreateTransaction inserts a transaction.
func (db *DB) CreateTransaction(ctx context.Context, tx *types.Transaction) error {
	metadata, err := encodeJSON(tx.Metadata, "{}")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO transactions (id, type, category, payer_id, payee_id, amount, currency, platform_fee,
		                           payout_amount, engagement_id, job_application_id, payment_method,
		                           stripe_payment_id, status, description, metadata, completed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		tx.ID, tx.Type, tx.Category, tx.PayerID, tx.PayeeID, tx.Amount, tx.Currency, tx.PlatformFee,
		tx.PayoutAmount, tx.EngagementID, tx.JobApplicationID, nullString(tx.PaymentMethod),
		nullString(tx.StripePaymentID), string(tx.Status), nullString(tx.Description), metadata,
		tx.CompletedAt, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID. Returns nil, nil if not found.
func (db *DB) GetTransaction(ctx context.Context, id uuid.UUID) (*types.Transaction, error) {
	tx, err := scanTransaction(db.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransaction overwrites the mutable columns of a transaction.
func (db *DB) UpdateTransaction(ctx context.Context, tx *types.Transaction) error {
	metadata, err := encodeJSON(tx.Metadata, "{}")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE transactions SET status = $2, stripe_payment_id = $3, payment_method = $4, description = $5,
		        metadata = $6, completed_at = $7
		 WHERE id = $1`,
		tx.ID, string(tx.Status), nullString(tx.StripePaymentID), nullString(tx.PaymentMethod),
		nullString(tx.Description), metadata, tx.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", tx.ID)
	}
	return nil
}

// SearchTransactions returns transactions matching f, newest first.
func (db *DB) SearchTransactions(ctx context.Context, f types.TransactionFilters) ([]types.Transaction, error) {
	var w filter
	if f.Type != "" {
		w.add("type = $%d", f.Type)
	}
	if f.Category != "" {
		w.add("category = $%d", f.Category)
	}
	if f.PayerID != nil {
		w.add("payer_id = $%d", *f.PayerID)
	}
	if f.PayeeID != nil {
		w.add("payee_id = $%d", *f.PayeeID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.EngagementID != nil {
		w.add("engagement_id = $%d", *f.EngagementID)
	}
	if f.DateFrom != nil {
		w.add("created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		w.add("created_at <= $%d", *f.DateTo)
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.where() +
		` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)

	rows, err := db.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	defer rows.Close()

	list := []types.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		list = append(list, *tx)
	}
	return list, rows.Err()
}
