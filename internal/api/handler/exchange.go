// internal/api/handler/exchange.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Phermidex/zenithCrypto/internal/service"
)

// ExchangeHandler handles buy and send requests.
type ExchangeHandler struct {
	base
	exchange service.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchange service.ExchangeService, logger *slog.Logger) *ExchangeHandler {
	return &ExchangeHandler{base: newBase(logger), exchange: exchange}
}

// BuyRequest represents the request body for a card-funded purchase.
// Amount positivity is checked by the ledger.
type BuyRequest struct {
	AssetID      string          `json:"asset_id" validate:"required"`
	CryptoAmount decimal.Decimal `json:"crypto_amount"`
	CardID       string          `json:"card_id,omitempty"`
	QuoteID      string          `json:"quote_id,omitempty"`
}

// Buy handles POST /me/buy
func (h *ExchangeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var req BuyRequest
	if err := h.decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	record, err := h.exchange.Buy(r.Context(), service.BuyRequest{
		UserID:       uid,
		AssetID:      req.AssetID,
		CryptoAmount: req.CryptoAmount,
		CardID:       req.CardID,
		QuoteID:      req.QuoteID,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, record)
}

// SendRequest represents the request body for sending crypto to someone else.
type SendRequest struct {
	AssetID        string          `json:"asset_id" validate:"required"`
	CryptoAmount   decimal.Decimal `json:"crypto_amount"`
	RecipientEmail string          `json:"recipient_email" validate:"required,email"`
	QuoteID        string          `json:"quote_id,omitempty"`
}

// Send handles POST /me/send
func (h *ExchangeHandler) Send(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var req SendRequest
	if err := h.decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	record, err := h.exchange.Send(r.Context(), service.SendRequest{
		UserID:         uid,
		AssetID:        req.AssetID,
		CryptoAmount:   req.CryptoAmount,
		RecipientEmail: req.RecipientEmail,
		QuoteID:        req.QuoteID,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, record)
}
