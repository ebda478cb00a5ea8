package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/scrowmarket/storefront-backend/api/routes"
	"github.com/scrowmarket/storefront-backend/internal/cart"
	"github.com/scrowmarket/storefront-backend/internal/catalog"
	"github.com/scrowmarket/storefront-backend/internal/checkout"
	"github.com/scrowmarket/storefront-backend/internal/ledger"
	"github.com/scrowmarket/storefront-backend/internal/orders"
	"github.com/scrowmarket/storefront-backend/internal/shipping"
	"github.com/scrowmarket/storefront-backend/pkg/config"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
	"github.com/scrowmarket/storefront-backend/pkg/metrics"
	pkgredis "github.com/scrowmarket/storefront-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ledgerClient, err := ledger.NewClient(cfg.Ledger, metrics.NewLedgerCallMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap ledger client", err)
		os.Exit(1)
	}

	var idempotencyStore pkgredis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		idempotencyStore = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	catalogService, err := catalog.NewService(ledgerClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(ledgerClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ledgerClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	shippingService, err := shipping.NewService(ledgerClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			idempotencyStore,
			cart.NewRegistry(),
			catalogService,
			checkoutService,
			ordersService,
			shippingService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
