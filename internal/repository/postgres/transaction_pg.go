// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
)

const transactionColumns = `id, user_id, asset_id, credit_card_id, kind, crypto_amount, fiat_amount, fiat_currency,
	unit_price, quote_id, status, recipient_reference, transaction_date, external_reference, created_at`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	db repository.DBExecutor
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db repository.DBExecutor) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// createTransaction inserts a record using the provided DBExecutor.
// Records are never updated afterwards.
func (r *TransactionRepository) createTransaction(ctx context.Context, q repository.DBExecutor, t *domain.TransactionRecord) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := q.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.AssetID,
		t.CreditCardID,
		t.Kind,
		t.CryptoAmount,
		t.FiatAmount,
		t.FiatCurrency,
		t.UnitPrice,
		t.QuoteID,
		t.Status,
		t.RecipientReference,
		t.TransactionDate,
		t.ExternalReference,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", translateError(err))
	}
	return nil
}

// ListTransactions retrieves a page of a user's records, newest first.
// It performs two queries: one for the data and one for the total count.
func (r *TransactionRepository) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]domain.TransactionRecord, int64, error) {
	transactions := []domain.TransactionRecord{}

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, translateError(err))
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for user %s: %w", userID, translateError(err))
	}

	return transactions, totalCount, nil
}

// ListTransactionsByAsset retrieves every record of one wallet, oldest first.
func (r *TransactionRepository) ListTransactionsByAsset(ctx context.Context, userID, assetID string) ([]domain.TransactionRecord, error) {
	transactions := []domain.TransactionRecord{}
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND asset_id = $2
		ORDER BY transaction_date ASC, id ASC`
	if err := r.db.SelectContext(ctx, &transactions, query, userID, assetID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for wallet %s/%s: %w", userID, assetID, translateError(err))
	}
	return transactions, nil
}
