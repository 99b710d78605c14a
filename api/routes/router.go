package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ordermesa/preorder-backend/api/controllers"
	"github.com/ordermesa/preorder-backend/api/middleware"
	authsvc "github.com/ordermesa/preorder-backend/internal/auth"
	cartsvc "github.com/ordermesa/preorder-backend/internal/cart"
	checkoutsvc "github.com/ordermesa/preorder-backend/internal/checkout"
	loyaltysvc "github.com/ordermesa/preorder-backend/internal/loyalty"
	notificationsvc "github.com/ordermesa/preorder-backend/internal/notifications"
	ordersvc "github.com/ordermesa/preorder-backend/internal/orders"
	restaurantsvc "github.com/ordermesa/preorder-backend/internal/restaurants"
	"github.com/ordermesa/preorder-backend/pkg/auth/session"
	"github.com/ordermesa/preorder-backend/pkg/config"
	"github.com/ordermesa/preorder-backend/pkg/logger"
	pkgredis "github.com/ordermesa/preorder-backend/pkg/redis"
)

// Deps bundles everything the router mounts. A nil Metrics registry skips
// the /metrics endpoint; a nil IdempotencyStore disables replay protection.
type Deps struct {
	Sessions         session.AccessSessionChecker
	IdempotencyStore pkgredis.IdempotencyStore
	Metrics          *prometheus.Registry

	Auth          authsvc.Service
	Restaurants   restaurantsvc.Service
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Orders        ordersvc.Service
	Notifications notificationsvc.Service
	Loyalty       loyaltysvc.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	// Attached per route: the idempotency rules match the resolved chi
	// pattern, which a group-level Use would see as an unmatched wildcard.
	idem := middleware.Idempotency(deps.IdempotencyStore, logg, cfg.Checkout.IdempotencyTTL)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(idem).Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
		r.Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	// Browsing venues and menus needs no account.
	r.Route("/api/v1/restaurants", func(r chi.Router) {
		r.Get("/", controllers.RestaurantsList(deps.Restaurants, logg))
		r.Get("/{restaurantID}", controllers.RestaurantsGet(deps.Restaurants, logg))
		r.Get("/{restaurantID}/menu", controllers.RestaurantsMenu(deps.Restaurants, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/auth/me", controllers.Profile(deps.Auth, logg))
		r.Get("/loyalty/summary", controllers.LoyaltySummary(deps.Loyalty, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Post("/replace", controllers.CartReplace(deps.Cart, logg))
			r.Patch("/items/{menuItemID}", controllers.CartUpdateQuantity(deps.Cart, logg))
			r.Delete("/items/{menuItemID}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Put("/order-type", controllers.CartSetOrderType(deps.Cart, logg))
		})

		r.With(idem).Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrdersGet(deps.Orders, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationsList(deps.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationsUnreadCount(deps.Notifications, logg))
			r.With(idem).Post("/{notificationID}/read", controllers.NotificationsMarkRead(deps.Notifications, logg))
			r.With(idem).Post("/read-all", controllers.NotificationsMarkAllRead(deps.Notifications, logg))
		})
	})

	return r
}
