// internal/service/mocks_test.go
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
)

// MockLedgerStore is a mock implementation of repository.LedgerStore.
// RunTransaction reports its first return value as a begin failure, runs fn
// against Tx, then reports its second return value as the commit result.
type MockLedgerStore struct {
	mock.Mock
	Tx *MockLedgerTx
}

func (m *MockLedgerStore) RunTransaction(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	if err := fn(m.Tx); err != nil {
		return err
	}
	return args.Error(1)
}

// MockLedgerTx is a mock implementation of repository.LedgerTx.
type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error) {
	args := m.Called(ctx, userID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletBalance), args.Error(1)
}

func (m *MockLedgerTx) SaveWallet(ctx context.Context, wallet *domain.WalletBalance) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockLedgerTx) CreateTransaction(ctx context.Context, record *domain.TransactionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockAssetRepository is a mock implementation of repository.AssetRepository.
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) CreateAsset(ctx context.Context, asset *domain.Asset) error {
	return m.Called(ctx, asset).Error(0)
}

func (m *MockAssetRepository) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) SetAssetEnabled(ctx context.Context, id string, enabled bool) error {
	return m.Called(ctx, id, enabled).Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error) {
	args := m.Called(ctx, userID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletBalance), args.Error(1)
}

func (m *MockWalletRepository) ListWallets(ctx context.Context, userID string) ([]domain.WalletBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalletBalance), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]domain.TransactionRecord, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsByAsset(ctx context.Context, userID, assetID string) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, userID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) CreateCard(ctx context.Context, card *domain.CreditCard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardRepository) GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditCard), args.Error(1)
}

func (m *MockCardRepository) ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditCard), args.Error(1)
}

func (m *MockCardRepository) SetDefaultCard(ctx context.Context, userID, cardID string) error {
	return m.Called(ctx, userID, cardID).Error(0)
}

func (m *MockCardRepository) DeleteCard(ctx context.Context, userID, cardID string) error {
	return m.Called(ctx, userID, cardID).Error(0)
}

// MockQuoteRepository is a mock implementation of repository.QuoteRepository.
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) SaveQuote(ctx context.Context, quote *domain.Quote, ttl time.Duration) error {
	return m.Called(ctx, quote, ttl).Error(0)
}

func (m *MockQuoteRepository) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// MockPriceOracle is a mock implementation of oracle.PriceOracle.
type MockPriceOracle struct {
	mock.Mock
}

func (m *MockPriceOracle) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSink is a mock implementation of notify.Sink.
type MockSink struct {
	mock.Mock
}

func (m *MockSink) TransactionCommitted(ctx context.Context, record *domain.TransactionRecord) error {
	return m.Called(ctx, record).Error(0)
}

// MockLedgerService is a mock implementation of LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ApplyCredit(ctx context.Context, userID, assetID string, cryptoAmount, fiatAmount decimal.Decimal, fiatCurrency, creditCardID string, opts ...ApplyOption) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, userID, assetID, cryptoAmount, fiatAmount, fiatCurrency, creditCardID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

func (m *MockLedgerService) ApplyDebit(ctx context.Context, userID, assetID string, cryptoAmount, fiatAmount decimal.Decimal, fiatCurrency, recipientReference string, opts ...ApplyOption) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, userID, assetID, cryptoAmount, fiatAmount, fiatCurrency, recipientReference, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}
