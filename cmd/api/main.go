package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/ordermesa/preorder-backend/api/routes"
	authsvc "github.com/ordermesa/preorder-backend/internal/auth"
	cartsvc "github.com/ordermesa/preorder-backend/internal/cart"
	checkoutsvc "github.com/ordermesa/preorder-backend/internal/checkout"
	"github.com/ordermesa/preorder-backend/internal/customers"
	loyaltysvc "github.com/ordermesa/preorder-backend/internal/loyalty"
	notificationsvc "github.com/ordermesa/preorder-backend/internal/notifications"
	ordersvc "github.com/ordermesa/preorder-backend/internal/orders"
	"github.com/ordermesa/preorder-backend/internal/payments"
	restaurantsvc "github.com/ordermesa/preorder-backend/internal/restaurants"
	"github.com/ordermesa/preorder-backend/pkg/auth/session"
	"github.com/ordermesa/preorder-backend/pkg/config"
	"github.com/ordermesa/preorder-backend/pkg/db"
	"github.com/ordermesa/preorder-backend/pkg/env"
	"github.com/ordermesa/preorder-backend/pkg/logger"
	"github.com/ordermesa/preorder-backend/pkg/metrics"
	"github.com/ordermesa/preorder-backend/pkg/migrate"
	"github.com/ordermesa/preorder-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		CustomerRepo:   customers.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurantsvc.NewService(restaurantsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(restaurantService, restaurantService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	notificationService, err := notificationsvc.NewService(notificationsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	loyaltyService, err := loyaltysvc.NewService(loyaltysvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		cartService,
		payments.NewSimulator(cfg.Payments),
		orderService,
		notificationService,
		logg,
		checkoutMetrics,
		cfg.Checkout,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Sessions:         sessionManager,
			IdempotencyStore: redisClient,
			Metrics:          registry,
			Auth:             authService,
			Restaurants:      restaurantService,
			Cart:             cartService,
			Checkout:         checkoutService,
			Orders:           orderService,
			Notifications:    notificationService,
			Loyalty:          loyaltyService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		closeErr := multierr.Combine(
			server.Shutdown(shutdownCtx),
			redisClient.Close(),
			dbClient.Close(),
		)
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
