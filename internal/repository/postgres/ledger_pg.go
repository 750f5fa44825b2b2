// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
	"github.com/Phermidex/zenithCrypto/pkg/db"
)

// LedgerStore implements repository.LedgerStore on a PostgreSQL transaction.
// Wallet writes are conditional on the version read, so the default
// READ COMMITTED isolation is enough to reject lost updates.
type LedgerStore struct {
	dbBeginner   db.DBTxBeginner
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
	wallets      *WalletRepository
	transactions *TransactionRepository
}

// NewLedgerStore creates a LedgerStore. The transaction lifecycle functions
// are injected; production code passes db.BeginTx, db.CommitTx and db.RollbackTx.
func NewLedgerStore(
	dbBeginner db.DBTxBeginner,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) *LedgerStore {
	return &LedgerStore{
		dbBeginner:   dbBeginner,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
		wallets:      &WalletRepository{},
		transactions: &TransactionRepository{},
	}
}

// RunTransaction executes fn inside one database transaction.
func (s *LedgerStore) RunTransaction(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return errors.New("transaction controller does not implement DBExecutor")
	}

	if err := fn(&ledgerTx{q: txExecutor, wallets: s.wallets, transactions: s.transactions}); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	return nil
}

type ledgerTx struct {
	q            repository.DBExecutor
	wallets      *WalletRepository
	transactions *TransactionRepository
}

func (t *ledgerTx) GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error) {
	return t.wallets.getWallet(ctx, t.q, userID, assetID)
}

func (t *ledgerTx) SaveWallet(ctx context.Context, wallet *domain.WalletBalance) error {
	if wallet.IsNew() {
		return t.wallets.insertWallet(ctx, t.q, wallet)
	}
	return t.wallets.updateWallet(ctx, t.q, wallet)
}

// CreateTransaction appends record. A clashing record id aborts the unit as a
// conflict so the caller's retry starts over with a fresh id.
func (t *ledgerTx) CreateTransaction(ctx context.Context, record *domain.TransactionRecord) error {
	err := t.transactions.createTransaction(ctx, t.q, record)
	if errors.Is(err, util.ErrDuplicateEntry) {
		return fmt.Errorf("%w: transaction %s: %w", util.ErrStoreConflict, record.ID, err)
	}
	return err
}

var (
	_ repository.LedgerStore           = (*LedgerStore)(nil)
	_ repository.WalletRepository      = (*WalletRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.AssetRepository       = (*AssetRepository)(nil)
	_ repository.CardRepository        = (*CardRepository)(nil)
)
