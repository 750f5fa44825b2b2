// internal/repository/memory/store.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

type walletKey struct {
	userID  string
	assetID string
}

// Store keeps every repository in process memory. It is used for local runs
// and tests; it enforces the same constraints as the PostgreSQL schema.
type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	assets       map[string]domain.Asset
	cards        map[string]domain.CreditCard
	wallets      map[walletKey]domain.WalletBalance
	transactions []domain.TransactionRecord
	unavailable  bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		assets:  make(map[string]domain.Asset),
		cards:   make(map[string]domain.CreditCard),
		wallets: make(map[walletKey]domain.WalletBalance),
	}
}

// SetUnavailable simulates an outage: while down every call fails with util.ErrStoreUnavailable.
func (s *Store) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = down
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.unavailable {
		return util.ErrStoreUnavailable
	}
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if _, exists := s.users[user.ID]; exists {
		return util.ErrDuplicateEntry
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	existing, ok := s.users[user.ID]
	if !ok {
		return util.ErrNotFound
	}
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.UpdatedAt = user.UpdatedAt
	s.users[user.ID] = existing
	return nil
}

// Assets

func (s *Store) CreateAsset(ctx context.Context, asset *domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if _, exists := s.assets[asset.ID]; exists {
		return util.ErrDuplicateEntry
	}
	s.assets[asset.ID] = *asset
	return nil
}

func (s *Store) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	asset, ok := s.assets[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &asset, nil
}

func (s *Store) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	assets := make([]domain.Asset, 0, len(s.assets))
	for _, asset := range s.assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Symbol < assets[j].Symbol })
	return assets, nil
}

func (s *Store) SetAssetEnabled(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	asset, ok := s.assets[id]
	if !ok {
		return util.ErrNotFound
	}
	asset.IsEnabled = enabled
	asset.UpdatedAt = time.Now().UTC()
	s.assets[id] = asset
	return nil
}

// Cards

// CreateCard inserts card, making it the default when the user has none.
func (s *Store) CreateCard(ctx context.Context, card *domain.CreditCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if _, ok := s.users[card.UserID]; !ok {
		return fmt.Errorf("%w: %s", util.ErrUserNotFound, card.UserID)
	}
	if _, exists := s.cards[card.ID]; exists {
		return util.ErrDuplicateEntry
	}
	card.IsDefault = true
	for _, existing := range s.cards {
		if existing.UserID == card.UserID && existing.IsDefault {
			card.IsDefault = false
			break
		}
	}
	s.cards[card.ID] = *card
	return nil
}

func (s *Store) GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	card, ok := s.cards[cardID]
	if !ok || card.UserID != userID {
		return nil, util.ErrNotFound
	}
	return &card, nil
}

func (s *Store) ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	cards := []domain.CreditCard{}
	for _, card := range s.cards {
		if card.UserID == userID {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].CreatedAt.Before(cards[j].CreatedAt)
		}
		return cards[i].ID < cards[j].ID
	})
	return cards, nil
}

func (s *Store) SetDefaultCard(ctx context.Context, userID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if card, ok := s.cards[cardID]; !ok || card.UserID != userID {
		return util.ErrNotFound
	}
	now := time.Now().UTC()
	for id, card := range s.cards {
		if card.UserID != userID {
			continue
		}
		card.IsDefault = id == cardID
		card.UpdatedAt = now
		s.cards[id] = card
	}
	return nil
}

func (s *Store) DeleteCard(ctx context.Context, userID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if card, ok := s.cards[cardID]; !ok || card.UserID != userID {
		return util.ErrNotFound
	}
	delete(s.cards, cardID)
	return nil
}

// Wallets and transaction log, read side

func (s *Store) GetWallet(ctx context.Context, userID, assetID string) (*domain.WalletBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	wallet, ok := s.wallets[walletKey{userID, assetID}]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &wallet, nil
}

func (s *Store) ListWallets(ctx context.Context, userID string) ([]domain.WalletBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	wallets := []domain.WalletBalance{}
	for key, wallet := range s.wallets {
		if key.userID == userID {
			wallets = append(wallets, wallet)
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].AssetID < wallets[j].AssetID })
	return wallets, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]domain.TransactionRecord, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, 0, err
	}
	records := []domain.TransactionRecord{}
	for _, record := range s.transactions {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].TransactionDate.Equal(records[j].TransactionDate) {
			return records[i].TransactionDate.After(records[j].TransactionDate)
		}
		return records[i].ID > records[j].ID
	})
	total := int64(len(records))
	if offset >= len(records) {
		return []domain.TransactionRecord{}, total, nil
	}
	end := len(records)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end], total, nil
}

func (s *Store) ListTransactionsByAsset(ctx context.Context, userID, assetID string) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	records := []domain.TransactionRecord{}
	for _, record := range s.transactions {
		if record.UserID == userID && record.AssetID == assetID {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].TransactionDate.Equal(records[j].TransactionDate) {
			return records[i].TransactionDate.Before(records[j].TransactionDate)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

var (
	_ repository.LedgerStore           = (*Store)(nil)
	_ repository.WalletRepository      = (*Store)(nil)
	_ repository.TransactionRepository = (*Store)(nil)
	_ repository.UserRepository        = (*Store)(nil)
	_ repository.AssetRepository       = (*Store)(nil)
	_ repository.CardRepository        = (*Store)(nil)
)
