// internal/repository/redis/quote_redis.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

const quoteKeyPrefix = "quote:"

// QuoteRepository stores quotes as JSON values that Redis expires on its own.
type QuoteRepository struct {
	client goredis.UniversalClient
}

// NewQuoteRepository creates a QuoteRepository on an existing client.
func NewQuoteRepository(client goredis.UniversalClient) *QuoteRepository {
	return &QuoteRepository{client: client}
}

// NewClient connects to addr and verifies the connection with a ping.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *QuoteRepository) SaveQuote(ctx context.Context, quote *domain.Quote, ttl time.Duration) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	if err := r.client.Set(ctx, quoteKeyPrefix+quote.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("save quote %s: %w: %w", quote.ID, util.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *QuoteRepository) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	data, err := r.client.Get(ctx, quoteKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quote %s: %w: %w", id, util.ErrStoreUnavailable, err)
	}
	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal quote %s: %w", id, err)
	}
	return &quote, nil
}

var _ repository.QuoteRepository = (*QuoteRepository)(nil)
