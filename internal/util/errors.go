// internal/util/errors.go
package util

import "errors"

// Ledger failures. Every one of them leaves balances and the transaction log untouched.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidAsset        = errors.New("unknown or disabled asset")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStoreConflict       = errors.New("concurrent modification detected")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Common application-specific errors.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input provided")
	ErrUserNotFound     = errors.New("user not found")
	ErrCardNotFound     = errors.New("card not found")
	ErrDuplicateEntry   = errors.New("duplicate entry")
	ErrUnauthorized     = errors.New("authentication required")
	ErrPriceUnavailable = errors.New("price unavailable")
	ErrQuoteNotFound    = errors.New("quote not found")
	ErrQuoteExpired     = errors.New("quote expired")
	ErrQuoteMismatch    = errors.New("quote does not match asset")
	ErrBelowMinimumFiat = errors.New("amount is below the minimum fiat value")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// IsRetryable reports whether a failed ledger attempt may be retried unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreConflict)
}
