// internal/domain/asset.go
package domain

import "time"

// Asset is an entry of the cryptocurrency catalog.
type Asset struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Symbol      string    `db:"symbol" json:"symbol"`
	Description string    `db:"description" json:"description,omitempty"`
	IconURL     string    `db:"icon_url" json:"icon_url,omitempty"`
	IsEnabled   bool      `db:"is_enabled" json:"is_enabled"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultAssets is the catalog seeded on an empty store.
func DefaultAssets(now time.Time) []Asset {
	return []Asset{
		{ID: "btc", Name: "Bitcoin", Symbol: "BTC", IsEnabled: true, CreatedAt: now, UpdatedAt: now},
		{ID: "eth", Name: "Ethereum", Symbol: "ETH", IsEnabled: true, CreatedAt: now, UpdatedAt: now},
		{ID: "sol", Name: "Solana", Symbol: "SOL", IsEnabled: true, CreatedAt: now, UpdatedAt: now},
	}
}
