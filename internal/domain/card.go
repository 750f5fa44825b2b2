// internal/domain/card.go
package domain

import "time"

// CreditCard is a payment method on file. Only the processor reference and
// display fields are stored.
type CreditCard struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	PaymentMethodID string    `db:"payment_method_id" json:"payment_method_id"`
	Brand           string    `db:"brand" json:"brand"`
	LastFour        string    `db:"last_four" json:"last_four"`
	ExpiryMonth     int       `db:"expiry_month" json:"expiry_month"`
	ExpiryYear      int       `db:"expiry_year" json:"expiry_year"`
	IsDefault       bool      `db:"is_default" json:"is_default"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
