// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// WalletRepository is the read side of wallet balances.
// Balances read here are advisory; writes go through LedgerStore.
type WalletRepository interface {
	// GetWallet retrieves the balance of one asset, or util.ErrNotFound.
	GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error)
	// ListWallets retrieves every balance of a user ordered by asset.
	ListWallets(ctx context.Context, userID string) ([]domain.WalletBalance, error)
}
