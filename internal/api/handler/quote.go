// internal/api/handler/quote.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/Phermidex/zenithCrypto/internal/service"
)

// QuoteHandler hands out short-lived price quotes.
type QuoteHandler struct {
	base
	quotes service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quotes service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{base: newBase(logger), quotes: quotes}
}

// CreateQuoteRequest represents the request body for a quote.
type CreateQuoteRequest struct {
	AssetID string `json:"asset_id" validate:"required"`
}

// CreateQuote handles POST /quotes
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := h.decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	quote, err := h.quotes.CreateQuote(r.Context(), req.AssetID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, quote)
}
