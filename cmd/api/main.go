package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/productmgmt-backend/api/controllers"
	"github.com/angelmondragon/productmgmt-backend/api/routes"
	"github.com/angelmondragon/productmgmt-backend/internal/directory"
	"github.com/angelmondragon/productmgmt-backend/internal/pricing"
	product "github.com/angelmondragon/productmgmt-backend/internal/products"
	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/db"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
	"github.com/angelmondragon/productmgmt-backend/pkg/metrics"
	"github.com/angelmondragon/productmgmt-backend/pkg/migrate"
	"github.com/angelmondragon/productmgmt-backend/pkg/redis"
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

	var (
		cache       redis.Cache
		redisPinger controllers.Pinger
	)
	if cfg.Redis.Enabled() {
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
		cache = redisClient
		redisPinger = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, directory cache disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(reg)

	directoryService, err := directory.NewService(
		directory.NewRepository(dbClient.DB()),
		cache,
		cfg.Directory,
		pricing.NewModeResolver(cfg.Pricing),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create directory service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(
		product.NewRepository(dbClient.DB()),
		dbClient,
		directoryService,
		cfg.Pricing,
		pricingMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
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
			dbClient,
			redisPinger,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			productService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
