// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Phermidex/zenithCrypto/internal/api/middleware"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 15 * time.Second

// base carries what every handler needs to decode requests and write responses.
type base struct {
	logger   *slog.Logger
	validate *validator.Validate
}

func newBase(logger *slog.Logger) base {
	return base{logger: logger, validate: validator.New()}
}

// Helper function to send JSON responses.
func (h base) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors onto HTTP status codes.
func (h base) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, message := StatusFor(err)
	if statusCode == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Unhandled service error", "error", err, "path", r.URL.Path)
	}
	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// StatusFor returns the HTTP status and client message for a service error.
func StatusFor(err error) (int, string) {
	switch {
	case util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrInvalidAsset),
		util.IsError(err, util.ErrQuoteMismatch),
		util.IsError(err, util.ErrBelowMinimumFiat):
		return http.StatusBadRequest, err.Error()
	case util.IsError(err, util.ErrUnauthorized):
		return http.StatusUnauthorized, "Authentication required"
	case util.IsError(err, util.ErrInsufficientBalance):
		return http.StatusPaymentRequired, "Insufficient balance"
	case util.IsError(err, util.ErrStoreConflict):
		return http.StatusConflict, "Concurrent update, please retry"
	case util.IsError(err, util.ErrQuoteExpired):
		return http.StatusConflict, "Quote expired"
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrUserNotFound),
		util.IsError(err, util.ErrCardNotFound),
		util.IsError(err, util.ErrQuoteNotFound):
		return http.StatusNotFound, "Resource not found"
	case util.IsError(err, util.ErrStoreUnavailable),
		util.IsError(err, util.ErrPriceUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// decode reads a JSON body into dst and runs its validate tags.
func (h base) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", util.ErrInvalidInput)
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %s", util.ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}
	return nil
}

// userID returns the authenticated caller.
func userID(r *http.Request) (string, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return "", util.ErrUnauthorized
	}
	return id, nil
}
