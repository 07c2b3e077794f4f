package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesafina-app/mesafina-backend/api/routes"
	"github.com/mesafina-app/mesafina-backend/internal/businesses"
	"github.com/mesafina-app/mesafina-backend/internal/cart"
	"github.com/mesafina-app/mesafina-backend/internal/checkout"
	"github.com/mesafina-app/mesafina-backend/internal/coupons"
	"github.com/mesafina-app/mesafina-backend/internal/dishes"
	"github.com/mesafina-app/mesafina-backend/internal/orders"
	"github.com/mesafina-app/mesafina-backend/pkg/config"
	"github.com/mesafina-app/mesafina-backend/pkg/db"
	"github.com/mesafina-app/mesafina-backend/pkg/env"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
	"github.com/mesafina-app/mesafina-backend/pkg/metrics"
	"github.com/mesafina-app/mesafina-backend/pkg/migrate"
	"github.com/mesafina-app/mesafina-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cartRepo := cart.NewRepository(dbClient.DB())
	cartSvc, err := cart.NewService(cartRepo, redisClient, cfg.Cart.CacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	couponSvc, err := coupons.NewService(coupons.NewRepository(dbClient.DB()), redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	orderSvc, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		couponSvc,
		orders.NewCartConverter(cartRepo),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	dishSvc, err := dishes.NewService(dishes.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create dish service", err)
		os.Exit(1)
	}

	businessSvc, err := businesses.NewService(businesses.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create business service", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkout.NewService(cartSvc, couponSvc, orderSvc, dishSvc, businessSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// PaaS runtimes inject PORT; fall back to the configured one.
	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Metrics:    httpMetrics,
			MetricsH:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			Checkout:   checkoutSvc,
			Coupons:    couponSvc,
			Orders:     orderSvc,
			Dishes:     dishSvc,
			Businesses: businessSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
