// internal/service/quote_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/oracle"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// quoteRetention keeps a quote readable after it expires so late use is
// reported as expired rather than unknown.
const quoteRetention = 5 * time.Minute

// QuoteService locks asset prices for a short time.
type QuoteService interface {
	CreateQuote(ctx context.Context, assetID string) (*domain.Quote, error)
	// ResolvePrice returns the quote's price when quoteID is set, and the
	// oracle's current price otherwise.
	ResolvePrice(ctx context.Context, assetID, quoteID string) (decimal.Decimal, error)
}

type quoteService struct {
	quoteRepo    repository.QuoteRepository
	assetRepo    repository.AssetRepository
	oracle       oracle.PriceOracle
	fiatCurrency string
	ttl          time.Duration
	now          func() time.Time
}

// NewQuoteService creates a new instance of QuoteService.
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	assetRepo repository.AssetRepository,
	priceOracle oracle.PriceOracle,
	fiatCurrency string,
	ttl time.Duration,
) QuoteService {
	return &quoteService{
		quoteRepo:    quoteRepo,
		assetRepo:    assetRepo,
		oracle:       priceOracle,
		fiatCurrency: fiatCurrency,
		ttl:          ttl,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *quoteService) CreateQuote(ctx context.Context, assetID string) (*domain.Quote, error) {
	asset, err := s.tradableAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	price, err := s.oracle.Price(ctx, asset.Symbol)
	if err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	quote := &domain.Quote{
		ID:           uuid.NewString(),
		AssetID:      asset.ID,
		Symbol:       asset.Symbol,
		UnitPrice:    price,
		FiatCurrency: s.fiatCurrency,
		ExpiresAt:    s.now().Add(s.ttl),
	}
	if err := s.quoteRepo.SaveQuote(ctx, quote, s.ttl+quoteRetention); err != nil {
		return nil, fmt.Errorf("create quote: failed to save quote: %w", err)
	}
	return quote, nil
}

func (s *quoteService) ResolvePrice(ctx context.Context, assetID, quoteID string) (decimal.Decimal, error) {
	if quoteID == "" {
		asset, err := s.tradableAsset(ctx, assetID)
		if err != nil {
			return decimal.Zero, err
		}
		return s.oracle.Price(ctx, asset.Symbol)
	}

	quote, err := s.quoteRepo.GetQuote(ctx, quoteID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s", util.ErrQuoteNotFound, quoteID)
		}
		return decimal.Zero, fmt.Errorf("failed to load quote %s: %w", quoteID, err)
	}
	if quote.AssetID != assetID {
		return decimal.Zero, fmt.Errorf("%w: quote %s is for %s", util.ErrQuoteMismatch, quoteID, quote.AssetID)
	}
	if quote.Expired(s.now()) {
		return decimal.Zero, fmt.Errorf("%w: %s", util.ErrQuoteExpired, quoteID)
	}
	return quote.UnitPrice, nil
}

func (s *quoteService) tradableAsset(ctx context.Context, assetID string) (*domain.Asset, error) {
	asset, err := s.assetRepo.GetAsset(ctx, assetID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidAsset, assetID)
		}
		return nil, fmt.Errorf("failed to resolve asset %s: %w", assetID, err)
	}
	if !asset.IsEnabled {
		return nil, fmt.Errorf("%w: %s is disabled", util.ErrInvalidAsset, assetID)
	}
	return asset, nil
}
