// internal/repository/ledger_store.go
package repository

import (
	"context"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// LedgerStore runs atomic read-modify-write units over wallet balances and
// the transaction log.
//
// RunTransaction calls fn with a LedgerTx. If fn returns an error nothing is
// written and that error is returned. Otherwise all writes are committed
// together, or none are: commit fails with util.ErrStoreConflict when a
// wallet read inside fn was modified concurrently.
type LedgerStore interface {
	RunTransaction(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the view of the store inside one atomic unit.
type LedgerTx interface {
	// GetWallet returns a copy of the wallet, or util.ErrNotFound.
	GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error)
	// SaveWallet creates the wallet when wallet.Version is 0 and updates it
	// conditionally on wallet.Version otherwise. On success wallet.Version is advanced.
	SaveWallet(ctx context.Context, wallet *domain.WalletBalance) error
	// CreateTransaction appends a record to the log.
	CreateTransaction(ctx context.Context, record *domain.TransactionRecord) error
}
