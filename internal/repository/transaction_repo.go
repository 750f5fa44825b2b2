// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// TransactionRepository is the read side of the transaction log.
type TransactionRepository interface {
	// ListTransactions returns a page of a user's records, newest first, and the total count.
	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]domain.TransactionRecord, int64, error)
	// ListTransactionsByAsset returns every record of one wallet, oldest first.
	ListTransactionsByAsset(ctx context.Context, userID, assetID string) ([]domain.TransactionRecord, error)
}
