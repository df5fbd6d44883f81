package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/controllers"
	cartcontrollers "github.com/ahmadsheraz5910/generic-restaurant-backend/api/controllers/cart"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/middleware"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/addoncart"
	cartrepo "github.com/ahmadsheraz5910/generic-restaurant-backend/internal/cart"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/catalog"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/config"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/logger"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	cartRepository cartrepo.Repository,
	catalogRepository catalog.Repository,
	cartService addoncart.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{productId}/addons", controllers.ProductAddons(catalogRepository, logg))

		r.Route("/carts/{cartId}", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartRepository, logg))
			r.Route("/addon-line-items", func(r chi.Router) {
				r.Post("/", cartcontrollers.AddonLineItemAdd(cartService, logg))
				r.Post("/batch-remove", cartcontrollers.AddonLineItemBatchRemove(cartService, logg))
				r.Patch("/{lineItemId}", cartcontrollers.AddonLineItemUpdate(cartService, logg))
				r.Delete("/{lineItemId}", cartcontrollers.AddonLineItemRemove(cartService, logg))
			})
		})
	})

	return r
}
