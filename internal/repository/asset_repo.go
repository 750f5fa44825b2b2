// internal/repository/asset_repo.go
package repository

import (
	"context"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// AssetRepository defines the interface for the asset catalog.
type AssetRepository interface {
	CreateAsset(ctx context.Context, asset *domain.Asset) error
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	SetAssetEnabled(ctx context.Context, id string, enabled bool) error
}
