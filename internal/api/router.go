// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Phermidex/zenithCrypto/internal/api/handler"
	auth "github.com/Phermidex/zenithCrypto/internal/api/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Assets   *handler.AssetHandler
	Quotes   *handler.QuoteHandler
	Accounts *handler.AccountHandler
	Exchange *handler.ExchangeHandler
	Cards    *handler.CardHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, jwtSecret []byte, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Catalog and quotes are public
	r.Get("/assets", h.Assets.ListAssets)
	r.Get("/assets/{assetID}", h.Assets.GetAsset)
	r.Post("/quotes", h.Quotes.CreateQuote)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(jwtSecret))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", h.Accounts.GetProfile)
			r.Put("/", h.Accounts.UpdateProfile)
			r.Get("/portfolio", h.Accounts.GetPortfolio)
			r.Get("/wallets/{assetID}", h.Accounts.GetWalletBalance)
			r.Get("/transactions", h.Accounts.GetTransactionHistory)
			r.Post("/buy", h.Exchange.Buy)
			r.Post("/send", h.Exchange.Send)

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", h.Cards.ListCards)
				r.Post("/", h.Cards.AddCard)
				r.Put("/{cardID}/default", h.Cards.SetDefault)
				r.Delete("/{cardID}", h.Cards.RemoveCard)
			})
		})

		r.With(auth.RequireRole(auth.RoleAdmin)).Put("/admin/assets/{assetID}", h.Assets.SetAssetEnabled)
	})

	return r
}
