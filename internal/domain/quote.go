// internal/domain/quote.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote locks a unit price for an asset until ExpiresAt.
type Quote struct {
	ID           string          `json:"id"`
	AssetID      string          `json:"asset_id"`
	Symbol       string          `json:"symbol"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	FiatCurrency string          `json:"fiat_currency"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// Expired reports whether the quote can no longer be used at now.
func (q *Quote) Expired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}
