// internal/api/handler/card.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/service"
)

// CardHandler manages the caller's saved payment cards.
type CardHandler struct {
	base
	cards service.CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{base: newBase(logger), cards: cards}
}

// AddCardRequest represents the request body for saving a card.
type AddCardRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
	Brand           string `json:"brand" validate:"required"`
	LastFour        string `json:"last_four" validate:"required,len=4,numeric"`
	ExpiryMonth     int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear      int    `json:"expiry_year" validate:"required,min=2000"`
	MakeDefault     bool   `json:"make_default"`
}

// ListCards handles GET /me/cards
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	cards, err := h.cards.ListCards(r.Context(), uid)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if cards == nil {
		cards = []domain.CreditCard{}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": cards})
}

// AddCard handles POST /me/cards
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var req AddCardRequest
	if err := h.decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	card, err := h.cards.AddCard(r.Context(), uid, service.AddCardRequest{
		PaymentMethodID: req.PaymentMethodID,
		Brand:           req.Brand,
		LastFour:        req.LastFour,
		ExpiryMonth:     req.ExpiryMonth,
		ExpiryYear:      req.ExpiryYear,
		MakeDefault:     req.MakeDefault,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, card)
}

// SetDefault handles PUT /me/cards/{cardID}/default
func (h *CardHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if err := h.cards.SetDefault(r.Context(), uid, chi.URLParam(r, "cardID")); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveCard handles DELETE /me/cards/{cardID}
func (h *CardHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if err := h.cards.RemoveCard(r.Context(), uid, chi.URLParam(r, "cardID")); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
