// internal/repository/memory/ledger.go
package memory

import (
	"context"
	"fmt"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// pendingWallet is a buffered wallet write and the version it must replace.
type pendingWallet struct {
	expected int64
	wallet   domain.WalletBalance
}

type memoryTx struct {
	store   *Store
	wallets map[walletKey]pendingWallet
	records []domain.TransactionRecord
}

// RunTransaction runs fn against a private write buffer and applies it under
// the store lock. Every buffered wallet write must still match the version it
// was read at, otherwise nothing is applied and util.ErrStoreConflict is returned.
func (s *Store) RunTransaction(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	s.mu.RLock()
	err := s.check(ctx)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	tx := &memoryTx{store: s, wallets: make(map[walletKey]pendingWallet)}
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(ctx, tx)
}

func (s *Store) commit(ctx context.Context, tx *memoryTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}

	for key, pending := range tx.wallets {
		current, exists := s.wallets[key]
		switch {
		case pending.expected == 0 && exists:
			return fmt.Errorf("%w: wallet %s/%s created concurrently", util.ErrStoreConflict, key.userID, key.assetID)
		case pending.expected != 0 && (!exists || current.Version != pending.expected):
			return fmt.Errorf("%w: wallet %s/%s changed since version %d", util.ErrStoreConflict, key.userID, key.assetID, pending.expected)
		}
		if pending.wallet.Balance.IsNegative() {
			return fmt.Errorf("%w: wallet %s/%s", util.ErrInsufficientBalance, key.userID, key.assetID)
		}
	}
	for _, record := range tx.records {
		if !record.CryptoAmount.IsPositive() || !record.FiatAmount.IsPositive() {
			return fmt.Errorf("%w: transaction %s", util.ErrInvalidAmount, record.ID)
		}
		for i := range s.transactions {
			if s.transactions[i].ID == record.ID {
				return fmt.Errorf("%w: transaction %s already exists", util.ErrStoreConflict, record.ID)
			}
		}
	}

	for key, pending := range tx.wallets {
		s.wallets[key] = pending.wallet
	}
	s.transactions = append(s.transactions, tx.records...)
	return nil
}

func (t *memoryTx) GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error) {
	if pending, ok := t.wallets[walletKey{userID, assetID}]; ok {
		wallet := pending.wallet
		return &wallet, nil
	}
	return t.store.GetWallet(ctx, userID, assetID)
}

func (t *memoryTx) SaveWallet(ctx context.Context, wallet *domain.WalletBalance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := walletKey{wallet.UserID, wallet.AssetID}
	expected := wallet.Version
	if pending, ok := t.wallets[key]; ok {
		// A second write in the same unit still has to match what was read first.
		if pending.wallet.Version != wallet.Version {
			return util.ErrStoreConflict
		}
		expected = pending.expected
	}

	saved := *wallet
	saved.Version = wallet.Version + 1
	t.wallets[key] = pendingWallet{expected: expected, wallet: saved}
	wallet.Version = saved.Version
	return nil
}

func (t *memoryTx) CreateTransaction(ctx context.Context, record *domain.TransactionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.records = append(t.records, *record)
	return nil
}
