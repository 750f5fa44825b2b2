// internal/repository/postgres/asset_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

const assetColumns = `id, name, symbol, description, icon_url, is_enabled, created_at, updated_at`

// AssetRepository implements repository.AssetRepository for PostgreSQL.
type AssetRepository struct {
	db repository.DBExecutor
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db repository.DBExecutor) *AssetRepository {
	return &AssetRepository{db: db}
}

// CreateAsset adds a catalog entry, failing with util.ErrDuplicateEntry if the id exists.
func (r *AssetRepository) CreateAsset(ctx context.Context, asset *domain.Asset) error {
	query := `INSERT INTO assets (` + assetColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              ON CONFLICT (id) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query,
		asset.ID, asset.Name, asset.Symbol, asset.Description, asset.IconURL, asset.IsEnabled, asset.CreatedAt, asset.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create asset %s: %w", asset.ID, translateError(err))
	}
	if err := expectOneRow(result, util.ErrDuplicateEntry); err != nil {
		return fmt.Errorf("failed to create asset %s: %w", asset.ID, err)
	}
	return nil
}

// GetAsset retrieves a catalog entry by ID.
func (r *AssetRepository) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	var asset domain.Asset
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	err := r.db.GetContext(ctx, &asset, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset %s: %w", id, translateError(err))
	}
	return &asset, nil
}

// ListAssets retrieves the whole catalog ordered by symbol.
func (r *AssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	assets := []domain.Asset{}
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY symbol`
	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", translateError(err))
	}
	return assets, nil
}

// SetAssetEnabled toggles whether an asset can be traded.
func (r *AssetRepository) SetAssetEnabled(ctx context.Context, id string, enabled bool) error {
	query := `UPDATE assets SET is_enabled = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, enabled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", id, translateError(err))
	}
	if err := expectOneRow(result, util.ErrNotFound); err != nil {
		return fmt.Errorf("failed to update asset %s: %w", id, err)
	}
	return nil
}
