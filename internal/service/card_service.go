// internal/service/card_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// AddCardRequest describes a card tokenized by the payment processor.
type AddCardRequest struct {
	PaymentMethodID string
	Brand           string
	LastFour        string
	ExpiryMonth     int
	ExpiryYear      int
	MakeDefault     bool
}

// CardService manages the payment cards on file. A user with cards always
// has exactly one default.
type CardService interface {
	AddCard(ctx context.Context, userID string, req AddCardRequest) (*domain.CreditCard, error)
	ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error)
	GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error)
	SetDefault(ctx context.Context, userID, cardID string) error
	RemoveCard(ctx context.Context, userID, cardID string) error
	DefaultCard(ctx context.Context, userID string) (*domain.CreditCard, error)
}

type cardService struct {
	cardRepo repository.CardRepository
	now      func() time.Time
}

// NewCardService creates a new instance of CardService.
func NewCardService(cardRepo repository.CardRepository) CardService {
	return &cardService{
		cardRepo: cardRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *cardService) AddCard(ctx context.Context, userID string, req AddCardRequest) (*domain.CreditCard, error) {
	if req.PaymentMethodID == "" || len(req.LastFour) != 4 || req.ExpiryMonth < 1 || req.ExpiryMonth > 12 || req.ExpiryYear < 2000 {
		return nil, util.ErrInvalidInput
	}

	now := s.now()
	card := &domain.CreditCard{
		ID:              uuid.NewString(),
		UserID:          userID,
		PaymentMethodID: req.PaymentMethodID,
		Brand:           req.Brand,
		LastFour:        req.LastFour,
		ExpiryMonth:     req.ExpiryMonth,
		ExpiryYear:      req.ExpiryYear,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	// The store decides atomically whether this card becomes the first default.
	if err := s.cardRepo.CreateCard(ctx, card); err != nil {
		return nil, fmt.Errorf("add card: failed to create card: %w", err)
	}

	if req.MakeDefault && !card.IsDefault {
		if err := s.cardRepo.SetDefaultCard(ctx, userID, card.ID); err != nil {
			return nil, fmt.Errorf("add card: failed to make card default: %w", err)
		}
		card.IsDefault = true
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	cards, err := s.cardRepo.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (s *cardService) GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error) {
	card, err := s.cardRepo.GetCard(ctx, userID, cardID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", util.ErrCardNotFound, cardID)
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

func (s *cardService) SetDefault(ctx context.Context, userID, cardID string) error {
	if err := s.cardRepo.SetDefaultCard(ctx, userID, cardID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return fmt.Errorf("%w: %s", util.ErrCardNotFound, cardID)
		}
		return fmt.Errorf("set default card: %w", err)
	}
	return nil
}

// RemoveCard deletes a card. Removing the default promotes the oldest remaining card.
func (s *cardService) RemoveCard(ctx context.Context, userID, cardID string) error {
	card, err := s.GetCard(ctx, userID, cardID)
	if err != nil {
		return err
	}
	if err := s.cardRepo.DeleteCard(ctx, userID, cardID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return fmt.Errorf("%w: %s", util.ErrCardNotFound, cardID)
		}
		return fmt.Errorf("remove card: %w", err)
	}
	if !card.IsDefault {
		return nil
	}

	remaining, err := s.cardRepo.ListCards(ctx, userID)
	if err != nil {
		return fmt.Errorf("remove card: failed to list cards: %w", err)
	}
	if len(remaining) == 0 {
		return nil
	}
	if err := s.cardRepo.SetDefaultCard(ctx, userID, remaining[0].ID); err != nil {
		return fmt.Errorf("remove card: failed to promote default card: %w", err)
	}
	return nil
}

func (s *cardService) DefaultCard(ctx context.Context, userID string) (*domain.CreditCard, error) {
	cards, err := s.cardRepo.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("default card: %w", err)
	}
	for i := range cards {
		if cards[i].IsDefault {
			return &cards[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no default card", util.ErrCardNotFound)
}
