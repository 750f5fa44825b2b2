// internal/repository/postgres/card_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

const cardColumns = `id, user_id, payment_method_id, brand, last_four, expiry_month, expiry_year, is_default, created_at, updated_at`

// CardRepository implements repository.CardRepository for PostgreSQL.
type CardRepository struct {
	db repository.DBExecutor
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(db repository.DBExecutor) *CardRepository {
	return &CardRepository{db: db}
}

// CreateCard inserts a new card. The card claims the default slot in the same
// statement when the user has no default yet, and card.IsDefault is set from
// the stored row.
func (r *CardRepository) CreateCard(ctx context.Context, card *domain.CreditCard) error {
	err := r.insertCard(ctx, card, true)
	if errors.Is(err, util.ErrStoreConflict) {
		// A concurrent insert claimed the default first.
		err = r.insertCard(ctx, card, false)
	}
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("failed to create card for user %s: %w: %w", card.UserID, util.ErrUserNotFound, err)
		}
		return fmt.Errorf("failed to create card for user %s: %w", card.UserID, err)
	}
	return nil
}

func (r *CardRepository) insertCard(ctx context.Context, card *domain.CreditCard, claimDefault bool) error {
	query := `INSERT INTO credit_cards (` + cardColumns + `)
              SELECT $1, $2, $3, $4, $5, $6, $7,
                     $8 AND NOT EXISTS (SELECT 1 FROM credit_cards WHERE user_id = $2 AND is_default),
                     $9, $10
              RETURNING is_default`
	err := r.db.QueryRowContext(ctx, query,
		card.ID, card.UserID, card.PaymentMethodID, card.Brand, card.LastFour,
		card.ExpiryMonth, card.ExpiryYear, claimDefault, card.CreatedAt, card.UpdatedAt).Scan(&card.IsDefault)
	return translateError(err)
}

// GetCard retrieves one of the user's cards.
func (r *CardRepository) GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error) {
	var card domain.CreditCard
	query := `SELECT ` + cardColumns + ` FROM credit_cards WHERE user_id = $1 AND id = $2`
	err := r.db.GetContext(ctx, &card, query, userID, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card %s: %w", cardID, translateError(err))
	}
	return &card, nil
}

// ListCards retrieves the user's cards in the order they were added.
func (r *CardRepository) ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	cards := []domain.CreditCard{}
	query := `SELECT ` + cardColumns + ` FROM credit_cards WHERE user_id = $1 ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &cards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list cards for user %s: %w", userID, translateError(err))
	}
	return cards, nil
}

// SetDefaultCard flips is_default for all of the user's cards in one statement,
// so there is never a moment with two defaults.
func (r *CardRepository) SetDefaultCard(ctx context.Context, userID, cardID string) error {
	query := `UPDATE credit_cards SET is_default = (id = $2), updated_at = $3
              WHERE user_id = $1
                AND EXISTS (SELECT 1 FROM credit_cards WHERE user_id = $1 AND id = $2)`
	result, err := r.db.ExecContext(ctx, query, userID, cardID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set default card %s: %w", cardID, translateError(err))
	}
	if err := expectOneRow(result, util.ErrNotFound); err != nil {
		return fmt.Errorf("failed to set default card %s: %w", cardID, err)
	}
	return nil
}

// DeleteCard removes one of the user's cards.
func (r *CardRepository) DeleteCard(ctx context.Context, userID, cardID string) error {
	query := `DELETE FROM credit_cards WHERE user_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, translateError(err))
	}
	if err := expectOneRow(result, util.ErrNotFound); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	return nil
}
