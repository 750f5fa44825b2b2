// internal/api/handler/asset.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Phermidex/zenithCrypto/internal/service"
)

// AssetHandler serves the asset catalog.
type AssetHandler struct {
	base
	assets service.AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets service.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{base: newBase(logger), assets: assets}
}

// ListAssets handles GET /assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.ListAssets(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": assets})
}

// GetAsset handles GET /assets/{assetID}
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assets.GetAsset(r.Context(), chi.URLParam(r, "assetID"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, asset)
}

// SetAssetEnabledRequest toggles whether an asset can be traded.
type SetAssetEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// SetAssetEnabled handles PUT /admin/assets/{assetID}
func (h *AssetHandler) SetAssetEnabled(w http.ResponseWriter, r *http.Request) {
	var req SetAssetEnabledRequest
	if err := h.decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	assetID := chi.URLParam(r, "assetID")
	if err := h.assets.SetAssetEnabled(r.Context(), assetID, *req.Enabled); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Asset availability changed", "asset_id", assetID, "enabled", *req.Enabled)
	w.WriteHeader(http.StatusNoContent)
}
