// internal/notify/notify.go
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// Sink is told about every committed ledger entry. It is called after the
// commit, so a failing sink never affects balances.
type Sink interface {
	TransactionCommitted(ctx context.Context, record *domain.TransactionRecord) error
}

// LogSink writes committed entries to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) TransactionCommitted(ctx context.Context, record *domain.TransactionRecord) error {
	s.logger.InfoContext(ctx, "Transaction committed",
		"transaction_id", record.ID,
		"user_id", record.UserID,
		"asset_id", record.AssetID,
		"kind", record.Kind,
		"crypto_amount", record.CryptoAmount.String(),
		"fiat_amount", record.FiatAmount.String(),
		"fiat_currency", record.FiatCurrency,
		"external_reference", record.ExternalReference,
	)
	return nil
}

// Multi fans a notification out to every sink and joins their errors.
type Multi []Sink

func (m Multi) TransactionCommitted(ctx context.Context, record *domain.TransactionRecord) error {
	var errs []error
	for _, sink := range m {
		if err := sink.TransactionCommitted(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
