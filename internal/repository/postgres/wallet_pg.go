// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

const walletColumns = `user_id, asset_id, balance, version, created_at, updated_at`

// WalletRepository implements repository.WalletRepository for PostgreSQL.
// The unexported methods take the executor explicitly so the ledger store
// can run them inside its transaction.
type WalletRepository struct {
	db repository.DBExecutor
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db repository.DBExecutor) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetWallet retrieves the balance of one asset for a user.
func (r *WalletRepository) GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error) {
	return r.getWallet(ctx, r.db, userID, assetID)
}

// ListWallets retrieves every balance of a user ordered by asset.
func (r *WalletRepository) ListWallets(ctx context.Context, userID string) ([]domain.WalletBalance, error) {
	wallets := []domain.WalletBalance{}
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY asset_id`
	if err := r.db.SelectContext(ctx, &wallets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list wallets for user %s: %w", userID, translateError(err))
	}
	return wallets, nil
}

func (r *WalletRepository) getWallet(ctx context.Context, q repository.DBExecutor, userID, assetID string) (*domain.WalletBalance, error) {
	var wallet domain.WalletBalance
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND asset_id = $2`
	err := q.GetContext(ctx, &wallet, query, userID, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet %s/%s: %w", userID, assetID, translateError(err))
	}
	return &wallet, nil
}

// insertWallet creates the row at version 1. A concurrent creator of the
// same key makes the insert a no-op, which is reported as a conflict.
func (r *WalletRepository) insertWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.WalletBalance) error {
	query := `INSERT INTO wallets (user_id, asset_id, balance, version, created_at, updated_at)
              VALUES ($1, $2, $3, 1, $4, $5)
              ON CONFLICT (user_id, asset_id) DO NOTHING`
	result, err := q.ExecContext(ctx, query, wallet.UserID, wallet.AssetID, wallet.Balance, wallet.CreatedAt, wallet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wallet %s/%s: %w", wallet.UserID, wallet.AssetID, translateError(err))
	}
	if err := expectOneRow(result, util.ErrStoreConflict); err != nil {
		return fmt.Errorf("failed to create wallet %s/%s: %w", wallet.UserID, wallet.AssetID, err)
	}
	wallet.Version = 1
	return nil
}

// updateWallet writes the balance only if the row still has the version it was read at.
func (r *WalletRepository) updateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.WalletBalance) error {
	query := `UPDATE wallets SET balance = $1, version = version + 1, updated_at = $2
              WHERE user_id = $3 AND asset_id = $4 AND version = $5`
	result, err := q.ExecContext(ctx, query, wallet.Balance, wallet.UpdatedAt, wallet.UserID, wallet.AssetID, wallet.Version)
	if err != nil {
		return fmt.Errorf("failed to update wallet %s/%s: %w", wallet.UserID, wallet.AssetID, translateError(err))
	}
	if err := expectOneRow(result, util.ErrStoreConflict); err != nil {
		return fmt.Errorf("failed to update wallet %s/%s at version %d: %w", wallet.UserID, wallet.AssetID, wallet.Version, err)
	}
	wallet.Version++
	return nil
}

// expectOneRow returns onZero when the statement touched no rows.
func expectOneRow(result sql.Result, onZero error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", translateError(err))
	}
	if rowsAffected == 0 {
		return onZero
	}
	return nil
}
