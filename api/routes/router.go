package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesafina-app/mesafina-backend/api/controllers"
	"github.com/mesafina-app/mesafina-backend/api/middleware"
	businesssvc "github.com/mesafina-app/mesafina-backend/internal/businesses"
	checkoutsvc "github.com/mesafina-app/mesafina-backend/internal/checkout"
	couponsvc "github.com/mesafina-app/mesafina-backend/internal/coupons"
	dishsvc "github.com/mesafina-app/mesafina-backend/internal/dishes"
	ordersvc "github.com/mesafina-app/mesafina-backend/internal/orders"
	"github.com/mesafina-app/mesafina-backend/pkg/config"
	"github.com/mesafina-app/mesafina-backend/pkg/db"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
	"github.com/mesafina-app/mesafina-backend/pkg/metrics"
	"github.com/mesafina-app/mesafina-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         *db.Client
	Redis      *redis.Client
	Metrics    *metrics.HTTPMetrics
	MetricsH   http.Handler
	Checkout   *checkoutsvc.Service
	Coupons    couponsvc.Service
	Orders     ordersvc.Service
	Dishes     dishsvc.Service
	Businesses businesssvc.Service
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.Metrics(d.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.DB, d.Redis, d.Logger))
	})

	if d.MetricsH == nil {
		d.MetricsH = promhttp.Handler()
	}
	r.Handle("/metrics", d.MetricsH)

	// Public browsing.
	r.Route("/api/v1/businesses", func(r chi.Router) {
		r.Get("/", controllers.BusinessList(d.Businesses, d.Logger))
		r.Post("/", controllers.BusinessCreate(d.Businesses, d.Logger))
		r.Get("/{businessID}", controllers.BusinessFetch(d.Businesses, d.Logger))
		r.Get("/{businessID}/menu", controllers.MenuList(d.Dishes, d.Logger))
	})

	// Customer surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.Config.JWT, d.Logger))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.Checkout, d.Logger))
			r.Delete("/", controllers.CartClear(d.Checkout, d.Logger))
			r.Post("/items", controllers.CartAddItem(d.Checkout, d.Logger))
			r.Put("/items/{dishID}", controllers.CartUpdateItem(d.Checkout, d.Logger))
			r.Delete("/items/{dishID}", controllers.CartRemoveItem(d.Checkout, d.Logger))
			r.Post("/coupon", controllers.CartApplyCoupon(d.Checkout, d.Logger))
			r.Delete("/coupon", controllers.CartRemoveCoupon(d.Checkout, d.Logger))
		})

		r.Post("/api/v1/checkout", controllers.CheckoutSubmit(d.Checkout, d.Logger))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(d.Orders, d.Logger))
			r.Get("/{orderID}", controllers.OrderFetch(d.Orders, d.Logger))
		})
	})

	// Business owner surface.
	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Auth(d.Config.JWT, d.Logger),
			middleware.RequireBusiness(d.Logger),
		)

		r.Route("/api/v1/manage", func(r chi.Router) {
			r.Put("/business", controllers.BusinessUpdate(d.Businesses, d.Logger))

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.CouponList(d.Coupons, d.Logger))
				r.Post("/", controllers.CouponCreate(d.Coupons, d.Logger))
				r.Put("/{couponID}", controllers.CouponUpdate(d.Coupons, d.Logger))
				r.Delete("/{couponID}", controllers.CouponDeactivate(d.Coupons, d.Logger))
			})

			r.Route("/dishes", func(r chi.Router) {
				r.Get("/", controllers.DishListAll(d.Dishes, d.Logger))
				r.Post("/", controllers.DishCreate(d.Dishes, d.Logger))
				r.Put("/{dishID}", controllers.DishUpdate(d.Dishes, d.Logger))
				r.Put("/{dishID}/availability", controllers.DishSetAvailability(d.Dishes, d.Logger))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.BusinessOrdersList(d.Orders, d.Logger))
				r.Put("/{orderID}/status", controllers.OrderUpdateStatus(d.Orders, d.Logger))
			})
		})
	})

	return r
}
