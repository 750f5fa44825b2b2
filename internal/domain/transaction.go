// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionKind defines the direction of a ledger entry.
type TransactionKind string

const (
	TransactionKindBuy  TransactionKind = "buy"  // credit, paid by card
	TransactionKindSend TransactionKind = "send" // debit, sent to a recipient
)

// FiatScale is the number of decimal places a fiat amount is recorded with.
const FiatScale = 2

// TransactionStatus defines the status of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionRecord is an immutable entry in a user's transaction log.
type TransactionRecord struct {
	ID                 string            `db:"id" json:"id"`
	UserID             string            `db:"user_id" json:"user_id"`
	AssetID            string            `db:"asset_id" json:"asset_id"`
	CreditCardID       *string           `db:"credit_card_id" json:"credit_card_id,omitempty"` // buy only
	Kind               TransactionKind   `db:"kind" json:"kind"`
	CryptoAmount       decimal.Decimal   `db:"crypto_amount" json:"crypto_amount"`
	FiatAmount         decimal.Decimal   `db:"fiat_amount" json:"fiat_amount"`
	FiatCurrency       string            `db:"fiat_currency" json:"fiat_currency"`
	UnitPrice          decimal.Decimal   `db:"unit_price" json:"unit_price"` // Price the fiat amount was computed from
	QuoteID            *string           `db:"quote_id" json:"quote_id,omitempty"`
	Status             TransactionStatus `db:"status" json:"status"`
	RecipientReference *string           `db:"recipient_reference" json:"recipient_reference,omitempty"` // send only
	TransactionDate    time.Time         `db:"transaction_date" json:"transaction_date"`
	ExternalReference  string            `db:"external_reference" json:"external_reference"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
}

// NewTransactionRecord creates a completed record of the given kind.
func NewTransactionRecord(
	id string,
	userID string,
	assetID string,
	kind TransactionKind,
	cryptoAmount decimal.Decimal,
	fiatAmount decimal.Decimal,
	fiatCurrency string,
	now time.Time,
) *TransactionRecord {
	return &TransactionRecord{
		ID:              id,
		UserID:          userID,
		AssetID:         assetID,
		Kind:            kind,
		CryptoAmount:    cryptoAmount,
		FiatAmount:      fiatAmount,
		FiatCurrency:    fiatCurrency,
		UnitPrice:       decimal.Zero,
		Status:          TransactionStatusCompleted,
		TransactionDate: now,
		CreatedAt:       now,
	}
}

// SignedAmount is the record's effect on the wallet balance.
func (t *TransactionRecord) SignedAmount() decimal.Decimal {
	if t.Status != TransactionStatusCompleted {
		return decimal.Zero
	}
	if t.Kind == TransactionKindSend {
		return t.CryptoAmount.Neg()
	}
	return t.CryptoAmount
}

// SumSignedAmounts folds records into the balance they imply.
func SumSignedAmounts(records []TransactionRecord) decimal.Decimal {
	total := decimal.Zero
	for i := range records {
		total = total.Add(records[i].SignedAmount())
	}
	return total
}
