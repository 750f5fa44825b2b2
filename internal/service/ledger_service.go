// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/metrics"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// LedgerService is the only writer of wallet balances. Each call is one
// attempt that either commits a balance change together with its
// transaction record or changes nothing. It never retries.
type LedgerService interface {
	ApplyCredit(ctx context.Context, userID, assetID string, cryptoAmount, fiatAmount decimal.Decimal, fiatCurrency, creditCardID string, opts ...ApplyOption) (*domain.TransactionRecord, error)
	ApplyDebit(ctx context.Context, userID, assetID string, cryptoAmount, fiatAmount decimal.Decimal, fiatCurrency, recipientReference string, opts ...ApplyOption) (*domain.TransactionRecord, error)
}

// ApplyOption attaches pricing details to the record of one attempt.
type ApplyOption func(*domain.TransactionRecord)

// WithUnitPrice records the price the fiat amount was computed from.
func WithUnitPrice(price decimal.Decimal) ApplyOption {
	return func(r *domain.TransactionRecord) { r.UnitPrice = price }
}

// WithQuoteID records the quote that locked the price.
func WithQuoteID(quoteID string) ApplyOption {
	return func(r *domain.TransactionRecord) {
		if quoteID != "" {
			r.QuoteID = &quoteID
		}
	}
}

// LedgerOption configures a LedgerService.
type LedgerOption func(*ledgerService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) { s.now = now }
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(newID func() string) LedgerOption {
	return func(s *ledgerService) { s.newID = newID }
}

// WithReferenceGenerator overrides how external payment references are generated.
func WithReferenceGenerator(newReference func(time.Time) string) LedgerOption {
	return func(s *ledgerService) { s.newReference = newReference }
}

// WithLedgerMetrics records every attempt in m.
func WithLedgerMetrics(m *metrics.Ledger) LedgerOption {
	return func(s *ledgerService) { s.metrics = m }
}

// WithLedgerLogger sets the logger.
func WithLedgerLogger(logger *slog.Logger) LedgerOption {
	return func(s *ledgerService) { s.logger = logger }
}

type ledgerService struct {
	store        repository.LedgerStore
	assetRepo    repository.AssetRepository
	userRepo     repository.UserRepository
	metrics      *metrics.Ledger
	logger       *slog.Logger
	now          func() time.Time
	newID        func() string
	newReference func(time.Time) string
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	store repository.LedgerStore,
	assetRepo repository.AssetRepository,
	userRepo repository.UserRepository,
	opts ...LedgerOption,
) LedgerService {
	s := &ledgerService{
		store:        store,
		assetRepo:    assetRepo,
		userRepo:     userRepo,
		logger:       slog.Default(),
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		newReference: newExternalReference,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newExternalReference returns an opaque, time-sortable payment reference.
func newExternalReference(now time.Time) string {
	return "pp_" + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}

// ApplyCredit adds cryptoAmount to the user's wallet, creating it on first use,
// and records a completed buy.
func (s *ledgerService) ApplyCredit(
	ctx context.Context,
	userID, assetID string,
	cryptoAmount, fiatAmount decimal.Decimal,
	fiatCurrency, creditCardID string,
	opts ...ApplyOption,
) (record *domain.TransactionRecord, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe(string(domain.TransactionKindBuy), started, err) }()

	if err := s.validate(ctx, userID, assetID, cryptoAmount, fiatAmount, fiatCurrency); err != nil {
		return nil, fmt.Errorf("apply credit: %w", err)
	}

	now := s.now()
	record = s.newRecord(userID, assetID, domain.TransactionKindBuy, cryptoAmount, fiatAmount, fiatCurrency, now, opts)
	if creditCardID != "" {
		record.CreditCardID = &creditCardID
	}

	err = s.store.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		wallet, err := tx.GetWallet(ctx, userID, assetID)
		if err != nil {
			if !util.IsError(err, util.ErrNotFound) {
				return err
			}
			wallet = domain.NewWalletBalance(userID, assetID, now)
		}

		wallet.Balance = wallet.Balance.Add(cryptoAmount)
		wallet.UpdatedAt = now
		if err := tx.SaveWallet(ctx, wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, record)
	})
	if err != nil {
		s.logAborted(ctx, record, err)
		return nil, fmt.Errorf("apply credit: %w", err)
	}

	s.logger.DebugContext(ctx, "Credit committed", "transaction_id", record.ID, "user_id", userID, "asset_id", assetID)
	return record, nil
}

// ApplyDebit subtracts cryptoAmount from the user's wallet and records a
// completed send. The balance is checked against the value read inside the
// atomic unit, never against an earlier read.
func (s *ledgerService) ApplyDebit(
	ctx context.Context,
	userID, assetID string,
	cryptoAmount, fiatAmount decimal.Decimal,
	fiatCurrency, recipientReference string,
	opts ...ApplyOption,
) (record *domain.TransactionRecord, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe(string(domain.TransactionKindSend), started, err) }()

	if err := s.validate(ctx, userID, assetID, cryptoAmount, fiatAmount, fiatCurrency); err != nil {
		return nil, fmt.Errorf("apply debit: %w", err)
	}

	now := s.now()
	record = s.newRecord(userID, assetID, domain.TransactionKindSend, cryptoAmount, fiatAmount, fiatCurrency, now, opts)
	if recipientReference != "" {
		record.RecipientReference = &recipientReference
	}

	err = s.store.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		wallet, err := tx.GetWallet(ctx, userID, assetID)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return fmt.Errorf("%w: no %s wallet", util.ErrInsufficientBalance, assetID)
			}
			return err
		}
		if wallet.Balance.LessThan(cryptoAmount) {
			return fmt.Errorf("%w: have %s, need %s", util.ErrInsufficientBalance, wallet.Balance, cryptoAmount)
		}

		wallet.Balance = wallet.Balance.Sub(cryptoAmount)
		wallet.UpdatedAt = now
		if err := tx.SaveWallet(ctx, wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, record)
	})
	if err != nil {
		s.logAborted(ctx, record, err)
		return nil, fmt.Errorf("apply debit: %w", err)
	}

	s.logger.DebugContext(ctx, "Debit committed", "transaction_id", record.ID, "user_id", userID, "asset_id", assetID)
	return record, nil
}

// validate runs every check that does not need the atomic unit.
func (s *ledgerService) validate(ctx context.Context, userID, assetID string, cryptoAmount, fiatAmount decimal.Decimal, fiatCurrency string) error {
	if !cryptoAmount.IsPositive() || !fiatAmount.IsPositive() {
		return util.ErrInvalidAmount
	}
	if !fiatAmount.Equal(fiatAmount.Round(domain.FiatScale)) {
		return fmt.Errorf("%w: fiat amount %s has more than %d decimal places", util.ErrInvalidAmount, fiatAmount, domain.FiatScale)
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(fiatCurrency) == "" {
		return util.ErrInvalidInput
	}

	asset, err := s.assetRepo.GetAsset(ctx, assetID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return fmt.Errorf("%w: %s", util.ErrInvalidAsset, assetID)
		}
		return fmt.Errorf("failed to resolve asset %s: %w", assetID, err)
	}
	if !asset.IsEnabled {
		return fmt.Errorf("%w: %s is disabled", util.ErrInvalidAsset, assetID)
	}

	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return fmt.Errorf("%w: %s", util.ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}
	return nil
}

func (s *ledgerService) newRecord(
	userID, assetID string,
	kind domain.TransactionKind,
	cryptoAmount, fiatAmount decimal.Decimal,
	fiatCurrency string,
	now time.Time,
	opts []ApplyOption,
) *domain.TransactionRecord {
	record := domain.NewTransactionRecord(s.newID(), userID, assetID, kind, cryptoAmount, fiatAmount, fiatCurrency, now)
	record.ExternalReference = s.newReference(now)
	for _, opt := range opts {
		opt(record)
	}
	return record
}

func (s *ledgerService) logAborted(ctx context.Context, record *domain.TransactionRecord, err error) {
	level := slog.LevelInfo
	if util.IsError(err, util.ErrStoreUnavailable) {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "Ledger attempt aborted",
		"kind", record.Kind,
		"user_id", record.UserID,
		"asset_id", record.AssetID,
		"outcome", metrics.Outcome(err),
		"error", err,
	)
}
