package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scrowmarket/storefront-backend/api/controllers"
	"github.com/scrowmarket/storefront-backend/api/middleware"
	"github.com/scrowmarket/storefront-backend/internal/cart"
	catalogsvc "github.com/scrowmarket/storefront-backend/internal/catalog"
	checkoutsvc "github.com/scrowmarket/storefront-backend/internal/checkout"
	orderssvc "github.com/scrowmarket/storefront-backend/internal/orders"
	shippingsvc "github.com/scrowmarket/storefront-backend/internal/shipping"
	"github.com/scrowmarket/storefront-backend/pkg/config"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
	pkgredis "github.com/scrowmarket/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	idempotencyStore pkgredis.IdempotencyStore,
	carts *cart.Registry,
	catalogService catalogsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orderssvc.Service,
	shippingService shippingsvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.Healthz(cfg))

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAccount(logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(carts, logg))
				r.Post("/items", controllers.CartAddItem(carts, catalogService, logg))
				r.Post("/items/{productId}/increment", controllers.CartIncrement(carts, logg))
				r.Post("/items/{productId}/decrement", controllers.CartDecrement(carts, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, carts, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/buyer", controllers.OrdersBuyer(ordersService, logg))
				r.Get("/seller", controllers.OrdersSeller(ordersService, logg))
				r.Post("/{orderId}/accept", controllers.OrderAccept(ordersService, logg))
				r.Post("/{orderId}/fulfill", controllers.OrderFulfill(ordersService, logg))
			})

			r.Route("/shipping-address", func(r chi.Router) {
				r.Get("/", controllers.ShippingAddressFetch(shippingService, logg))
				r.Put("/", controllers.ShippingAddressBind(shippingService, logg))
			})
		})
	})

	return r
}
