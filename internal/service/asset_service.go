// internal/service/asset_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// AssetService manages the tradable asset catalog.
type AssetService interface {
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	GetAsset(ctx context.Context, assetID string) (*domain.Asset, error)
	SetAssetEnabled(ctx context.Context, assetID string, enabled bool) error
	// SeedDefaults adds the default assets that are missing.
	SeedDefaults(ctx context.Context) error
}

type assetService struct {
	assetRepo repository.AssetRepository
	logger    *slog.Logger
}

// NewAssetService creates a new instance of AssetService.
func NewAssetService(assetRepo repository.AssetRepository, logger *slog.Logger) AssetService {
	return &assetService{assetRepo: assetRepo, logger: logger}
}

func (s *assetService) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	assets, err := s.assetRepo.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

func (s *assetService) GetAsset(ctx context.Context, assetID string) (*domain.Asset, error) {
	asset, err := s.assetRepo.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("get asset %s: %w", assetID, err)
	}
	return asset, nil
}

func (s *assetService) SetAssetEnabled(ctx context.Context, assetID string, enabled bool) error {
	if err := s.assetRepo.SetAssetEnabled(ctx, assetID, enabled); err != nil {
		return fmt.Errorf("set asset %s enabled=%t: %w", assetID, enabled, err)
	}
	s.logger.InfoContext(ctx, "Asset availability changed", "asset_id", assetID, "enabled", enabled)
	return nil
}

func (s *assetService) SeedDefaults(ctx context.Context) error {
	for _, asset := range domain.DefaultAssets(time.Now().UTC()) {
		asset := asset
		err := s.assetRepo.CreateAsset(ctx, &asset)
		switch {
		case err == nil:
			s.logger.InfoContext(ctx, "Seeded asset", "asset_id", asset.ID)
		case util.IsError(err, util.ErrDuplicateEntry):
		default:
			return fmt.Errorf("seed asset %s: %w", asset.ID, err)
		}
	}
	return nil
}
