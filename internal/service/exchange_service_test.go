// internal/service/exchange_service_test.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/metrics"
	"github.com/Phermidex/zenithCrypto/internal/repository/memory"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// stubQuotes prices every asset at a fixed value.
type stubQuotes struct {
	price decimal.Decimal
	err   error
}

func (q stubQuotes) CreateQuote(ctx context.Context, assetID string) (*domain.Quote, error) {
	return nil, errors.New("not used")
}

func (q stubQuotes) ResolvePrice(ctx context.Context, assetID, quoteID string) (decimal.Decimal, error) {
	return q.price, q.err
}

func decEq(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(want)) })
}

func newExchange(ledger LedgerService, quotes QuoteService, cards CardService, sink *MockSink) ExchangeService {
	return NewExchangeService(ledger, quotes, cards, sink, "USD",
		RetryConfig{MaxRetries: 3, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
		metrics.NewLedger(prometheus.NewRegistry()), slog.Default())
}

func cardStore(t *testing.T) CardService {
	t.Helper()
	cards := NewCardService(newCardStore(t))
	_, err := cards.AddCard(context.Background(), "user-1", AddCardRequest{
		PaymentMethodID: "pm_1", Brand: "visa", LastFour: "4242", ExpiryMonth: 12, ExpiryYear: 2030,
	})
	require.NoError(t, err)
	return cards
}

func TestExchangeService_Buy(t *testing.T) {
	t.Run("PricesWithDefaultCardAndNotifies", func(t *testing.T) {
		ctx := context.Background()
		ledger := new(MockLedgerService)
		sink := new(MockSink)
		cards := cardStore(t)
		defaultCard, err := cards.DefaultCard(ctx, "user-1")
		require.NoError(t, err)
		svc := newExchange(ledger, stubQuotes{price: dec("3000.123")}, cards, sink)

		committed := &domain.TransactionRecord{ID: "tx-1"}
		ledger.On("ApplyCredit", ctx, "user-1", "eth", decEq("0.5"), decEq("1500.06"), "USD", defaultCard.ID, mock.Anything).
			Return(committed, nil).Once()
		sink.On("TransactionCommitted", ctx, committed).Return(nil).Once()

		record, err := svc.Buy(ctx, BuyRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: dec("0.5")})

		require.NoError(t, err)
		assert.Same(t, committed, record)
		mock.AssertExpectationsForObjects(t, ledger, sink)
	})

	t.Run("UnknownCard", func(t *testing.T) {
		ledger := new(MockLedgerService)
		svc := newExchange(ledger, stubQuotes{price: dec("1")}, cardStore(t), new(MockSink))

		_, err := svc.Buy(context.Background(), BuyRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: dec("1"), CardID: "nope"})

		assert.ErrorIs(t, err, util.ErrCardNotFound)
		ledger.AssertNumberOfCalls(t, "ApplyCredit", 0)
	})

	t.Run("NoCardsOnFile", func(t *testing.T) {
		svc := newExchange(new(MockLedgerService), stubQuotes{price: dec("1")}, NewCardService(memory.NewStore()), new(MockSink))

		_, err := svc.Buy(context.Background(), BuyRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: dec("1")})

		assert.ErrorIs(t, err, util.ErrCardNotFound)
	})

	t.Run("PriceUnavailable", func(t *testing.T) {
		ledger := new(MockLedgerService)
		svc := newExchange(ledger, stubQuotes{err: util.ErrPriceUnavailable}, cardStore(t), new(MockSink))

		_, err := svc.Buy(context.Background(), BuyRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: dec("1")})

		assert.ErrorIs(t, err, util.ErrPriceUnavailable)
		ledger.AssertNumberOfCalls(t, "ApplyCredit", 0)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		svc := newExchange(new(MockLedgerService), stubQuotes{price: dec("1")}, cardStore(t), new(MockSink))

		_, err := svc.Buy(context.Background(), BuyRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: decimal.Zero})

		assert.ErrorIs(t, err, util.ErrInvalidAmount)
	})

	t.Run("WorthLessThanOneCent", func(t *testing.T) {
		ledger := new(MockLedgerService)
		svc := newExchange(ledger, stubQuotes{price: dec("60000")}, cardStore(t), new(MockSink))

		_, err := svc.Buy(context.Background(), BuyRequest{UserID: "user-1", AssetID: "btc", CryptoAmount: dec("0.00000001")})

		assert.ErrorIs(t, err, util.ErrBelowMinimumFiat)
		assert.NotErrorIs(t, err, util.ErrInvalidAmount)
		ledger.AssertNumberOfCalls(t, "ApplyCredit", 0)
	})
}

func TestExchangeService_Send(t *testing.T) {
	t.Run("RetriesConflictsThenCommits", func(t *testing.T) {
		ctx := context.Background()
		ledger := new(MockLedgerService)
		sink := new(MockSink)
		svc := newExchange(ledger, stubQuotes{price: dec("60000")}, cardStore(t), sink)

		committed := &domain.TransactionRecord{ID: "tx-9"}
		ledger.On("ApplyDebit", ctx, "user-1", "btc", decEq("0.01"), decEq("600"), "USD", "friend@example.com", mock.Anything).
			Return(nil, util.ErrStoreConflict).Twice()
		ledger.On("ApplyDebit", ctx, "user-1", "btc", decEq("0.01"), decEq("600"), "USD", "friend@example.com", mock.Anything).
			Return(committed, nil).Once()
		sink.On("TransactionCommitted", ctx, committed).Return(nil).Once()

		record, err := svc.Send(ctx, SendRequest{UserID: "user-1", AssetID: "btc", CryptoAmount: dec("0.01"), RecipientEmail: " friend@example.com "})

		require.NoError(t, err)
		assert.Same(t, committed, record)
		ledger.AssertNumberOfCalls(t, "ApplyDebit", 3)
		mock.AssertExpectationsForObjects(t, ledger, sink)
	})

	t.Run("GivesUpAfterMaxRetries", func(t *testing.T) {
		ctx := context.Background()
		ledger := new(MockLedgerService)
		sink := new(MockSink)
		svc := newExchange(ledger, stubQuotes{price: dec("1")}, cardStore(t), sink)

		ledger.On("ApplyDebit", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, util.ErrStoreConflict)

		_, err := svc.Send(ctx, SendRequest{UserID: "user-1", AssetID: "btc", CryptoAmount: dec("1"), RecipientEmail: "friend@example.com"})

		assert.ErrorIs(t, err, util.ErrStoreConflict)
		ledger.AssertNumberOfCalls(t, "ApplyDebit", 4)
		sink.AssertNotCalled(t, "TransactionCommitted", mock.Anything, mock.Anything)
	})

	t.Run("InsufficientBalanceIsNotRetried", func(t *testing.T) {
		ctx := context.Background()
		ledger := new(MockLedgerService)
		svc := newExchange(ledger, stubQuotes{price: dec("1")}, cardStore(t), new(MockSink))

		ledger.On("ApplyDebit", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, util.ErrInsufficientBalance)

		_, err := svc.Send(ctx, SendRequest{UserID: "user-1", AssetID: "btc", CryptoAmount: dec("1"), RecipientEmail: "friend@example.com"})

		assert.ErrorIs(t, err, util.ErrInsufficientBalance)
		ledger.AssertNumberOfCalls(t, "ApplyDebit", 1)
	})

	t.Run("SinkFailureIsNotSurfaced", func(t *testing.T) {
		ctx := context.Background()
		ledger := new(MockLedgerService)
		sink := new(MockSink)
		svc := newExchange(ledger, stubQuotes{price: dec("1")}, cardStore(t), sink)

		committed := &domain.TransactionRecord{ID: "tx-1"}
		ledger.On("ApplyDebit", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(committed, nil).Once()
		sink.On("TransactionCommitted", ctx, committed).Return(errors.New("broker down")).Once()

		record, err := svc.Send(ctx, SendRequest{UserID: "user-1", AssetID: "btc", CryptoAmount: dec("1"), RecipientEmail: "friend@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "tx-1", record.ID)
		sink.AssertExpectations(t)
	})

	t.Run("RecipientRequired", func(t *testing.T) {
		svc := newExchange(new(MockLedgerService), stubQuotes{price: dec("1")}, cardStore(t), new(MockSink))

		_, err := svc.Send(context.Background(), SendRequest{UserID: "user-1", AssetID: "btc", CryptoAmount: dec("1"), RecipientEmail: "  "})

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("WorthLessThanOneCent", func(t *testing.T) {
		ledger := new(MockLedgerService)
		svc := newExchange(ledger, stubQuotes{price: dec("0.5")}, cardStore(t), new(MockSink))

		_, err := svc.Send(context.Background(), SendRequest{UserID: "user-1", AssetID: "btc", CryptoAmount: dec("0.009"), RecipientEmail: "friend@example.com"})

		assert.ErrorIs(t, err, util.ErrBelowMinimumFiat)
		ledger.AssertNumberOfCalls(t, "ApplyDebit", 0)
	})
}

func TestExchangeService_EndToEndOnMemoryStore(t *testing.T) {
	ctx := context.Background()
	store, ledger := newMemoryLedger(t)
	cards := NewCardService(store)
	card, err := cards.AddCard(ctx, "user-1", AddCardRequest{PaymentMethodID: "pm_1", Brand: "visa", LastFour: "4242", ExpiryMonth: 1, ExpiryYear: 2031})
	require.NoError(t, err)
	quotes := NewQuoteService(memory.NewQuoteStore(), store, stubOracle{"ETH": dec("3000")}, "USD", 30*time.Second)
	sink := new(MockSink)
	sink.On("TransactionCommitted", ctx, mock.Anything).Return(nil)
	svc := newExchange(ledger, quotes, cards, sink)

	quote, err := quotes.CreateQuote(ctx, "eth")
	require.NoError(t, err)

	bought, err := svc.Buy(ctx, BuyRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: dec("2"), QuoteID: quote.ID})
	require.NoError(t, err)
	assert.True(t, bought.FiatAmount.Equal(dec("6000")))
	assert.True(t, bought.UnitPrice.Equal(dec("3000")))
	require.NotNil(t, bought.QuoteID)
	assert.Equal(t, quote.ID, *bought.QuoteID)
	assert.Equal(t, card.ID, *bought.CreditCardID)

	_, err = svc.Send(ctx, SendRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: dec("0.5"), RecipientEmail: "friend@example.com"})
	require.NoError(t, err)

	_, err = svc.Send(ctx, SendRequest{UserID: "user-1", AssetID: "eth", CryptoAmount: dec("5"), RecipientEmail: "friend@example.com"})
	assert.ErrorIs(t, err, util.ErrInsufficientBalance)

	assertConsistent(t, store, "1.5")
	sink.AssertNumberOfCalls(t, "TransactionCommitted", 2)
}
