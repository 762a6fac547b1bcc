package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/shopstate/pkg/health"
	"github.com/utafrali/shopstate/pkg/middleware"
)

// RouterConfig holds the cross-cutting HTTP policies of the bridge.
type RouterConfig struct {
	CORS      middleware.CORSConfig
	RateLimit middleware.RateLimitConfig
}

// NewRouter creates a chi router with the screen bridge, health and metrics
// routes registered.
func NewRouter(h *Handler, healthHandler *health.Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics())
	r.Use(middleware.Tracing("shopstate/http"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/screens", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimit, logger))
		r.Use(middleware.NoStore)
		r.Use(ContentTypeJSON)

		r.Get("/", h.ListScreens)

		r.Route("/{screen}", func(r chi.Router) {
			r.Use(ScreenFromPath)

			r.Post("/focus", h.Focus)

			r.Get("/cart", h.GetCart)
			r.Get("/cart/total", h.GetCartTotal)
			r.Post("/cart/items", h.AddCartItem)
			r.Delete("/cart/items/{productId}", h.RemoveCartItem)
			r.Post("/cart/items/{productId}/increment", h.IncrementCartItem)
			r.Post("/cart/items/{productId}/decrement", h.DecrementCartItem)

			r.Get("/wishlist", h.GetWishlist)
			r.Post("/wishlist/items", h.AddWishlistItem)
			r.Delete("/wishlist/items/{productId}", h.RemoveWishlistItem)

			r.Get("/products", h.ListProducts)
			r.Post("/products/refresh", h.RefreshProducts)
			r.Get("/products/search", h.SearchProducts)
			r.Get("/products/{productId}", h.GetProduct)
		})
	})

	return r
}
