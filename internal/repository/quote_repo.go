// internal/repository/quote_repo.go
package repository

import (
	"context"
	"time"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// QuoteRepository stores short-lived price quotes.
type QuoteRepository interface {
	SaveQuote(ctx context.Context, quote *domain.Quote, ttl time.Duration) error
	// GetQuote returns util.ErrNotFound once the quote is gone or past its TTL.
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
}
