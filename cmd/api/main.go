package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/routes"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/addoncart"
	cartrepo "github.com/ahmadsheraz5910/generic-restaurant-backend/internal/cart"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/catalog"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/pricing"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/config"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/logger"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/metrics"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/migrate"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/pubsub"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var emitter *pubsub.Emitter
	if cfg.FeatureFlags.EmitEvents && cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		emitter = pubsub.NewEmitter(pubsubClient, logg)
	} else {
		emitter = pubsub.NewEmitter(nil, logg)
	}

	registry := prometheus.NewRegistry()
	reconcileMetrics := metrics.NewReconcileMetrics(registry)

	cartRepository := cartrepo.NewRepository(dbClient.DB())
	lineItemRepository := cartrepo.NewLineItemRepository(dbClient.DB())
	catalogRepository := catalog.NewRepository(dbClient.DB())
	priceCalculator := pricing.NewCalculator(dbClient.DB())

	cartService, err := addoncart.NewService(
		cartRepository,
		lineItemRepository,
		catalogRepository,
		priceCalculator,
		redisClient,
		emitter,
		cfg.CartLock,
		logg,
		reconcileMetrics,
		cfg.FeatureFlags.EmitEvents,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry,
			cartRepository, catalogRepository, cartService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
