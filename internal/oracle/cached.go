// internal/oracle/cached.go
package oracle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type cachedPrice struct {
	price     decimal.Decimal
	expiresAt time.Time
}

// CachedOracle remembers prices from an upstream oracle for a TTL.
// Concurrent misses for one symbol share a single upstream call; failures are not cached.
type CachedOracle struct {
	upstream PriceOracle
	ttl      time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	prices map[string]cachedPrice
	sf     singleflight.Group
}

// NewCachedOracle wraps upstream. A non-positive ttl disables caching.
func NewCachedOracle(upstream PriceOracle, ttl time.Duration) *CachedOracle {
	return &CachedOracle{
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
		prices:   make(map[string]cachedPrice),
	}
}

func (o *CachedOracle) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if o.ttl <= 0 {
		return o.upstream.Price(ctx, symbol)
	}
	key := strings.ToUpper(symbol)

	o.mu.RLock()
	entry, ok := o.prices[key]
	o.mu.RUnlock()
	if ok && o.now().Before(entry.expiresAt) {
		return entry.price, nil
	}

	// The shared lookup outlives any single caller; each caller still stops
	// waiting when its own context ends.
	flight := o.sf.DoChan(key, func() (interface{}, error) {
		price, err := o.upstream.Price(context.WithoutCancel(ctx), key)
		if err != nil {
			return decimal.Zero, err
		}
		o.mu.Lock()
		o.prices[key] = cachedPrice{price: price, expiresAt: o.now().Add(o.ttl)}
		o.mu.Unlock()
		return price, nil
	})

	select {
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	}
}
