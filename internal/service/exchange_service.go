// internal/service/exchange_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/shopspring/decimal"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/metrics"
	"github.com/Phermidex/zenithCrypto/internal/notify"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// BuyRequest is a card-funded purchase of an asset.
type BuyRequest struct {
	UserID       string
	AssetID      string
	CryptoAmount decimal.Decimal
	CardID       string // empty selects the default card
	QuoteID      string // empty prices at request time
}

// SendRequest is a transfer of an asset to an outside recipient.
type SendRequest struct {
	UserID         string
	AssetID        string
	CryptoAmount   decimal.Decimal
	RecipientEmail string
	QuoteID        string
}

// RetryConfig bounds how often a conflicted ledger attempt is retried.
type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
	MaxDelay   time.Duration
}

// ExchangeService prices buy and send requests and applies them to the ledger.
type ExchangeService interface {
	Buy(ctx context.Context, req BuyRequest) (*domain.TransactionRecord, error)
	Send(ctx context.Context, req SendRequest) (*domain.TransactionRecord, error)
}

type exchangeService struct {
	ledger       LedgerService
	quotes       QuoteService
	cards        CardService
	sink         notify.Sink
	fiatCurrency string
	retry        RetryConfig
	metrics      *metrics.Ledger
	logger       *slog.Logger
}

// NewExchangeService creates a new instance of ExchangeService.
func NewExchangeService(
	ledger LedgerService,
	quotes QuoteService,
	cards CardService,
	sink notify.Sink,
	fiatCurrency string,
	retry RetryConfig,
	m *metrics.Ledger,
	logger *slog.Logger,
) ExchangeService {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	if retry.Delay <= 0 {
		retry.Delay = 10 * time.Millisecond
	}
	if retry.MaxDelay <= retry.Delay {
		retry.MaxDelay = 8 * retry.Delay
	}
	return &exchangeService{
		ledger:       ledger,
		quotes:       quotes,
		cards:        cards,
		sink:         sink,
		fiatCurrency: fiatCurrency,
		retry:        retry,
		metrics:      m,
		logger:       logger,
	}
}

func (s *exchangeService) Buy(ctx context.Context, req BuyRequest) (*domain.TransactionRecord, error) {
	if !req.CryptoAmount.IsPositive() {
		return nil, fmt.Errorf("buy: %w", util.ErrInvalidAmount)
	}

	var card *domain.CreditCard
	var err error
	if req.CardID == "" {
		card, err = s.cards.DefaultCard(ctx, req.UserID)
	} else {
		card, err = s.cards.GetCard(ctx, req.UserID, req.CardID)
	}
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	price, err := s.quotes.ResolvePrice(ctx, req.AssetID, req.QuoteID)
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}
	fiatAmount, err := fiatValue(req.CryptoAmount, price)
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	record, err := s.applyWithRetry(ctx, domain.TransactionKindBuy, func() (*domain.TransactionRecord, error) {
		return s.ledger.ApplyCredit(ctx, req.UserID, req.AssetID, req.CryptoAmount, fiatAmount, s.fiatCurrency, card.ID,
			WithUnitPrice(price), WithQuoteID(req.QuoteID))
	})
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	s.publish(ctx, record)
	return record, nil
}

func (s *exchangeService) Send(ctx context.Context, req SendRequest) (*domain.TransactionRecord, error) {
	if !req.CryptoAmount.IsPositive() {
		return nil, fmt.Errorf("send: %w", util.ErrInvalidAmount)
	}
	recipient := strings.TrimSpace(req.RecipientEmail)
	if recipient == "" {
		return nil, fmt.Errorf("send: recipient is required: %w", util.ErrInvalidInput)
	}

	price, err := s.quotes.ResolvePrice(ctx, req.AssetID, req.QuoteID)
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	fiatAmount, err := fiatValue(req.CryptoAmount, price)
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	record, err := s.applyWithRetry(ctx, domain.TransactionKindSend, func() (*domain.TransactionRecord, error) {
		return s.ledger.ApplyDebit(ctx, req.UserID, req.AssetID, req.CryptoAmount, fiatAmount, s.fiatCurrency, recipient,
			WithUnitPrice(price), WithQuoteID(req.QuoteID))
	})
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	s.publish(ctx, record)
	return record, nil
}

// FiatAmount is the fiat value of cryptoAmount at price, rounded to cents.
func FiatAmount(cryptoAmount, price decimal.Decimal) decimal.Decimal {
	return cryptoAmount.Mul(price).Round(domain.FiatScale)
}

// fiatValue rejects amounts worth less than one cent.
func fiatValue(cryptoAmount, price decimal.Decimal) (decimal.Decimal, error) {
	fiat := FiatAmount(cryptoAmount, price)
	if !fiat.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s at %s", util.ErrBelowMinimumFiat, cryptoAmount, price)
	}
	return fiat, nil
}

// applyWithRetry repeats a ledger attempt that lost a concurrent write race.
// Every other failure is returned as is.
func (s *exchangeService) applyWithRetry(
	ctx context.Context,
	kind domain.TransactionKind,
	attempt func() (*domain.TransactionRecord, error),
) (*domain.TransactionRecord, error) {
	policy := retrypolicy.NewBuilder[*domain.TransactionRecord]().
		HandleIf(func(_ *domain.TransactionRecord, err error) bool {
			return util.IsRetryable(err)
		}).
		WithMaxRetries(s.retry.MaxRetries).
		WithBackoff(s.retry.Delay, s.retry.MaxDelay).
		WithJitterFactor(0.1).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[*domain.TransactionRecord]) {
			s.metrics.Retried(string(kind))
			s.logger.InfoContext(ctx, "Retrying ledger attempt after conflict",
				"kind", kind, "attempt", e.Attempts(), "error", e.LastError())
		}).
		Build()

	return failsafe.With[*domain.TransactionRecord](policy).WithContext(ctx).Get(attempt)
}

func (s *exchangeService) publish(ctx context.Context, record *domain.TransactionRecord) {
	if s.sink == nil {
		return
	}
	if err := s.sink.TransactionCommitted(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish committed transaction",
			"transaction_id", record.ID, "error", err)
	}
}
