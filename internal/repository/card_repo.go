// internal/repository/card_repo.go
package repository

import (
	"context"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// CardRepository defines the interface for stored payment cards.
// Every lookup is scoped to the owning user.
type CardRepository interface {
	// CreateCard inserts card. It becomes the default when the user has no
	// default card yet; card.IsDefault reports which happened. Fails with
	// util.ErrUserNotFound for an unknown user.
	CreateCard(ctx context.Context, card *domain.CreditCard) error
	GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error)
	ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error)
	// SetDefaultCard marks cardID as the only default card of userID.
	SetDefaultCard(ctx context.Context, userID, cardID string) error
	DeleteCard(ctx context.Context, userID, cardID string) error
}
