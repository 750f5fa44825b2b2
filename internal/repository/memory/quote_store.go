// internal/repository/memory/quote_store.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

type storedQuote struct {
	quote    domain.Quote
	deadline time.Time
}

// QuoteStore keeps quotes in memory until their TTL passes.
type QuoteStore struct {
	mu     sync.Mutex
	quotes map[string]storedQuote
	now    func() time.Time
}

// NewQuoteStore creates an empty QuoteStore.
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]storedQuote), now: time.Now}
}

func (s *QuoteStore) SaveQuote(ctx context.Context, quote *domain.Quote, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, stored := range s.quotes {
		if !now.Before(stored.deadline) {
			delete(s.quotes, id)
		}
	}
	s.quotes[quote.ID] = storedQuote{quote: *quote, deadline: now.Add(ttl)}
	return nil
}

func (s *QuoteStore) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.quotes[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	if !s.now().Before(stored.deadline) {
		delete(s.quotes, id)
		return nil, util.ErrNotFound
	}
	quote := stored.quote
	return &quote, nil
}

var _ repository.QuoteRepository = (*QuoteStore)(nil)
