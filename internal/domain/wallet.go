// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// WalletBalance is the running balance of one asset for one user.
// It is only ever written through the ledger's atomic transaction.
type WalletBalance struct {
	UserID    string          `db:"user_id" json:"user_id"`
	AssetID   string          `db:"asset_id" json:"asset_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`       // NUMERIC(36, 18), never negative
	Version   int64           `db:"version" json:"-"`             // Optimistic concurrency token, 0 until first persisted
	CreatedAt time.Time       `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewWalletBalance creates an unsaved zero balance for (userID, assetID).
func NewWalletBalance(userID, assetID string, now time.Time) *WalletBalance {
	return &WalletBalance{
		UserID:    userID,
		AssetID:   assetID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsNew reports whether the balance has never been persisted.
func (w *WalletBalance) IsNew() bool {
	return w.Version == 0
}
