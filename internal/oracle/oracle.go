// internal/oracle/oracle.go
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Phermidex/zenithCrypto/internal/util"
)

// PriceOracle returns the current fiat price of one unit of an asset.
type PriceOracle interface {
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// StaticOracle serves prices from a fixed table keyed by upper-case symbol.
type StaticOracle struct {
	prices map[string]decimal.Decimal
}

// NewStaticOracle copies prices into a new StaticOracle.
func NewStaticOracle(prices map[string]decimal.Decimal) *StaticOracle {
	table := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		table[strings.ToUpper(symbol)] = price
	}
	return &StaticOracle{prices: table}
}

// Price returns util.ErrPriceUnavailable for unknown symbols and non-positive prices.
func (o *StaticOracle) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	price, ok := o.prices[strings.ToUpper(symbol)]
	if !ok || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", util.ErrPriceUnavailable, symbol)
	}
	return price, nil
}
