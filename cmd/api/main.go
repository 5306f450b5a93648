package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakline/storefront-backend/api/routes"
	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/internal/catalog"
	"github.com/oakline/storefront-backend/internal/coupon"
	"github.com/oakline/storefront-backend/internal/identity"
	"github.com/oakline/storefront-backend/internal/navigation"
	"github.com/oakline/storefront-backend/internal/orders"
	"github.com/oakline/storefront-backend/internal/preferences"
	"github.com/oakline/storefront-backend/internal/wishlist"
	"github.com/oakline/storefront-backend/pkg/config"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
	"github.com/oakline/storefront-backend/pkg/metrics"
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

	ctx := context.Background()

	store, closer, err := kvstore.NewFromConfig(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap kv store", err)
		os.Exit(1)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logg.Error(ctx, "error closing kv store", err)
		}
	}()

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	svcs := routes.Services{
		Catalog:     catalog.NewService(ctx, store, logg, cfg.Seed.DemoCatalog),
		Identity:    identity.NewService(ctx, store, logg, cfg.JWT, cfg.Seed.DemoAccounts),
		Cart:        cart.NewService(ctx, store, logg),
		Coupon:      coupon.NewService(ctx, store, logg),
		Orders:      orders.NewService(ctx, store, logg),
		Wishlist:    wishlist.NewService(ctx, store, logg),
		Navigation:  navigation.NewService(ctx, store, logg),
		Preferences: preferences.NewService(ctx, store, logg),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, store, httpMetrics, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
