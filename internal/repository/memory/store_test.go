// internal/repository/memory/store_test.go
package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

func seedWallet(t *testing.T, s *Store, balance int64) {
	t.Helper()
	err := s.RunTransaction(context.Background(), func(tx repository.LedgerTx) error {
		wallet := domain.NewWalletBalance("user-1", "btc", time.Now().UTC())
		wallet.Balance = decimal.NewFromInt(balance)
		return tx.SaveWallet(context.Background(), wallet)
	})
	require.NoError(t, err)
}

func TestStore_RunTransaction_StaleWriteIsRejected(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWallet(t, s, 10)

	// Both units read version 1; the second to commit must lose.
	read := func() *domain.WalletBalance {
		w, err := s.GetWallet(ctx, "user-1", "btc")
		require.NoError(t, err)
		return w
	}
	first, second := read(), read()

	err := s.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		first.Balance = first.Balance.Sub(decimal.NewFromInt(6))
		return tx.SaveWallet(ctx, first)
	})
	require.NoError(t, err)

	err = s.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		second.Balance = second.Balance.Sub(decimal.NewFromInt(6))
		return tx.SaveWallet(ctx, second)
	})
	assert.ErrorIs(t, err, util.ErrStoreConflict)

	wallet, err := s.GetWallet(ctx, "user-1", "btc")
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, int64(2), wallet.Version)
}

func TestStore_RunTransaction_ConcurrentCreateIsRejected(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWallet(t, s, 1)

	err := s.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		return tx.SaveWallet(ctx, domain.NewWalletBalance("user-1", "btc", time.Now().UTC()))
	})

	assert.ErrorIs(t, err, util.ErrStoreConflict)
}

func TestStore_RunTransaction_FailedUnitWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWallet(t, s, 10)
	boom := fmt.Errorf("boom")

	err := s.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		w, err := tx.GetWallet(ctx, "user-1", "btc")
		require.NoError(t, err)
		w.Balance = decimal.Zero
		require.NoError(t, tx.SaveWallet(ctx, w))
		record := domain.NewTransactionRecord("tx-1", "user-1", "btc", domain.TransactionKindSend,
			decimal.NewFromInt(10), decimal.NewFromInt(1), "USD", time.Now().UTC())
		require.NoError(t, tx.CreateTransaction(ctx, record))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	wallet, err := s.GetWallet(ctx, "user-1", "btc")
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(10)))
	records, total, err := s.ListTransactions(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, total)
}

func TestStore_RunTransaction_NegativeBalanceIsRejected(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWallet(t, s, 1)

	err := s.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		w, err := tx.GetWallet(ctx, "user-1", "btc")
		if err != nil {
			return err
		}
		w.Balance = decimal.NewFromInt(-1)
		return tx.SaveWallet(ctx, w)
	})

	assert.ErrorIs(t, err, util.ErrInsufficientBalance)
}

func TestStore_RunTransaction_Unavailable(t *testing.T) {
	s := NewStore()
	s.SetUnavailable(true)

	err := s.RunTransaction(context.Background(), func(tx repository.LedgerTx) error { return nil })

	assert.ErrorIs(t, err, util.ErrStoreUnavailable)
}

func TestStore_ListTransactions_NewestFirstWithPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := s.RunTransaction(ctx, func(tx repository.LedgerTx) error {
		for i := 0; i < 5; i++ {
			record := domain.NewTransactionRecord(fmt.Sprintf("tx-%d", i), "user-1", "btc", domain.TransactionKindBuy,
				decimal.NewFromInt(1), decimal.NewFromInt(1), "USD", base.Add(time.Duration(i)*time.Minute))
			if err := tx.CreateTransaction(ctx, record); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	page, total, err := s.ListTransactions(ctx, "user-1", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "tx-3", page[0].ID)
	assert.Equal(t, "tx-2", page[1].ID)

	all, err := s.ListTransactionsByAsset(ctx, "user-1", "btc")
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "tx-0", all[0].ID)
}

func seedUsers(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, s.CreateUser(context.Background(), domain.NewUser(id, id+"@example.com", time.Now().UTC())))
	}
}

func TestStore_SetDefaultCard_LeavesOneDefault(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUsers(t, s, "user-1", "user-2")
	now := time.Now().UTC()
	for i, id := range []string{"card-a", "card-b"} {
		require.NoError(t, s.CreateCard(ctx, &domain.CreditCard{
			ID: id, UserID: "user-1", CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, s.CreateCard(ctx, &domain.CreditCard{ID: "card-z", UserID: "user-2", CreatedAt: now}))

	require.NoError(t, s.SetDefaultCard(ctx, "user-1", "card-b"))
	assert.ErrorIs(t, s.SetDefaultCard(ctx, "user-1", "card-z"), util.ErrNotFound)

	cards, err := s.ListCards(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.False(t, cards[0].IsDefault)
	assert.True(t, cards[1].IsDefault)

	other, err := s.GetCard(ctx, "user-2", "card-z")
	require.NoError(t, err)
	assert.True(t, other.IsDefault)
}

func TestStore_CreateCard_ClaimsDefaultOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUsers(t, s, "user-1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			card := &domain.CreditCard{ID: fmt.Sprintf("card-%d", i), UserID: "user-1", CreatedAt: time.Now().UTC()}
			assert.NoError(t, s.CreateCard(ctx, card))
		}(i)
	}
	wg.Wait()

	cards, err := s.ListCards(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cards, 8)
	defaults := 0
	for _, c := range cards {
		if c.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestStore_CreateCard_UnknownUser(t *testing.T) {
	s := NewStore()

	err := s.CreateCard(context.Background(), &domain.CreditCard{ID: "card-a", UserID: "ghost"})

	assert.ErrorIs(t, err, util.ErrUserNotFound)
	cards, err := s.ListCards(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestStore_RunTransaction_DuplicateRecordIsConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	appendRecord := func() error {
		return s.RunTransaction(ctx, func(tx repository.LedgerTx) error {
			return tx.CreateTransaction(ctx, domain.NewTransactionRecord("tx-1", "user-1", "btc",
				domain.TransactionKindBuy, decimal.NewFromInt(1), decimal.NewFromInt(1), "USD", time.Now().UTC()))
		})
	}

	require.NoError(t, appendRecord())
	assert.ErrorIs(t, appendRecord(), util.ErrStoreConflict)

	_, total, err := s.ListTransactions(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestQuoteStore_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewQuoteStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.SaveQuote(ctx, &domain.Quote{ID: "q-1", AssetID: "btc"}, 30*time.Second))

	q, err := s.GetQuote(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, "btc", q.AssetID)

	now = now.Add(30 * time.Second)
	_, err = s.GetQuote(ctx, "q-1")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
