// internal/api/handler/account.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Phermidex/zenithCrypto/internal/api/middleware"
	"github.com/Phermidex/zenithCrypto/internal/api/types"
	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/service"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// AccountHandler serves the caller's profile, balances and history.
type AccountHandler struct {
	base
	profiles   service.ProfileService
	portfolios service.PortfolioService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(profiles service.ProfileService, portfolios service.PortfolioService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{base: newBase(logger), profiles: profiles, portfolios: portfolios}
}

// GetProfile handles GET /me. The profile is created on first sight.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.profiles.EnsureProfile(r.Context(), uid, middleware.EmailFromContext(r.Context()))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfileRequest represents the request body for a profile update.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// UpdateProfile handles PUT /me
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var req UpdateProfileRequest
	if err := h.decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(), uid, req.FirstName, req.LastName)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// GetPortfolio handles GET /me/portfolio
func (h *AccountHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	portfolio, err := h.portfolios.GetPortfolio(r.Context(), uid)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, portfolio)
}

// GetWalletBalance handles GET /me/wallets/{assetID}
func (h *AccountHandler) GetWalletBalance(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	wallet, err := h.portfolios.GetBalance(r.Context(), uid, chi.URLParam(r, "assetID"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, wallet)
}

// GetTransactionHistory handles GET /me/transactions?limit=&offset=
func (h *AccountHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	limit, err := queryInt(r, "limit", service.DefaultHistoryLimit)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if limit <= 0 {
		limit = service.DefaultHistoryLimit
	}
	limit = min(limit, service.MaxHistoryLimit)
	offset = max(offset, 0)

	records, total, err := h.portfolios.GetTransactionHistory(r.Context(), uid, limit, offset)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if records == nil {
		records = []domain.TransactionRecord{}
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.TransactionRecord]{
		Data:       records,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", util.ErrInvalidInput, key)
	}
	return v, nil
}
