// internal/service/portfolio_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/oracle"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// Holding is one asset of a portfolio valued in fiat.
type Holding struct {
	AssetID   string          `json:"asset_id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Value     decimal.Decimal `json:"value"`
	Priced    bool            `json:"priced"` // false when the oracle had no price
}

// Portfolio is the dashboard view of every enabled asset of a user.
type Portfolio struct {
	UserID       string          `json:"user_id"`
	FiatCurrency string          `json:"fiat_currency"`
	Holdings     []Holding       `json:"holdings"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// PortfolioService is the read side of balances and history. Nothing it
// returns is used as the basis of a write.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID string) (*Portfolio, error)
	GetBalance(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error)
	GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]domain.TransactionRecord, int64, error)
}

type portfolioService struct {
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	assetRepo       repository.AssetRepository
	oracle          oracle.PriceOracle
	fiatCurrency    string
	logger          *slog.Logger
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	assetRepo repository.AssetRepository,
	priceOracle oracle.PriceOracle,
	fiatCurrency string,
	logger *slog.Logger,
) PortfolioService {
	return &portfolioService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		oracle:          priceOracle,
		fiatCurrency:    fiatCurrency,
		logger:          logger,
	}
}

func (s *portfolioService) GetPortfolio(ctx context.Context, userID string) (*Portfolio, error) {
	assets, err := s.assetRepo.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("get portfolio: failed to list assets: %w", err)
	}
	wallets, err := s.walletRepo.ListWallets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get portfolio: failed to list wallets: %w", err)
	}
	balances := make(map[string]decimal.Decimal, len(wallets))
	for _, w := range wallets {
		balances[w.AssetID] = w.Balance
	}

	portfolio := &Portfolio{
		UserID:       userID,
		FiatCurrency: s.fiatCurrency,
		Holdings:     []Holding{},
		TotalValue:   decimal.Zero,
	}
	for _, asset := range assets {
		if !asset.IsEnabled {
			continue
		}
		holding := Holding{
			AssetID:   asset.ID,
			Symbol:    asset.Symbol,
			Name:      asset.Name,
			Balance:   decimal.Zero,
			UnitPrice: decimal.Zero,
			Value:     decimal.Zero,
		}
		if balance, ok := balances[asset.ID]; ok {
			holding.Balance = balance
		}

		price, err := s.oracle.Price(ctx, asset.Symbol)
		if err != nil {
			s.logger.WarnContext(ctx, "No price for asset", "asset_id", asset.ID, "error", err)
		} else {
			holding.UnitPrice = price
			holding.Value = holding.Balance.Mul(price).Round(2)
			holding.Priced = true
			portfolio.TotalValue = portfolio.TotalValue.Add(holding.Value)
		}
		portfolio.Holdings = append(portfolio.Holdings, holding)
	}
	return portfolio, nil
}

// GetBalance returns a zero balance for an asset the user never held.
func (s *portfolioService) GetBalance(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error) {
	if _, err := s.assetRepo.GetAsset(ctx, assetID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidAsset, assetID)
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}

	wallet, err := s.walletRepo.GetWallet(ctx, userID, assetID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			now := time.Now().UTC()
			return domain.NewWalletBalance(userID, assetID, now), nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return wallet, nil
}

func (s *portfolioService) GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]domain.TransactionRecord, int64, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := s.transactionRepo.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get transaction history: %w", err)
	}
	return records, total, nil
}
