package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"storeapi"
	"storeapi/internal/api/entities"
	"storeapi/internal/api/events"
	"storeapi/internal/api/handler/endpoints"
	"storeapi/internal/api/handler/middleware"
	"storeapi/internal/api/models"
	"storeapi/internal/api/repo"
	"storeapi/internal/api/service"
	"storeapi/internal/realtime"
	"storeapi/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	storeapi.InitConfig(".env")
	cfg := storeapi.GetConfig()
	logger := storeapi.Logger
	gin.SetMode(gin.ReleaseMode)

	catalog, err := repo.NewCatalog(nil, models.All()...)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to parse models")
	}

	var store repo.Store
	checks := map[string]endpoints.HealthCheck{}
	if cfg.Mode == storeapi.ModeMemory {
		store = repo.NewMemoryStore(catalog)
		logger.Warn().Msg("Running with the in-memory store, data is not persisted")
	} else {
		store = repo.NewGormStore(storeapi.DB, catalog, logger)
		checks["database"] = func(ctx context.Context) error {
			conn, err := storeapi.DB.DB()
			if err != nil {
				return err
			}
			return conn.PingContext(ctx)
		}
	}

	if cfg.Mode == storeapi.ModeDev {
		if err := storeapi.DB.AutoMigrate(models.All()...); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	var cache service.Cache
	if storeapi.Redis != nil {
		cache = pkg.NewRedisCache(storeapi.Redis, "storeapi", cfg.StockSummaryTTL)
		checks["redis"] = func(ctx context.Context) error {
			return storeapi.Redis.Ping(ctx).Err()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)
	logger.Info().Msg("WebSocket hub started")

	// With NATS every instance, including this one, receives events through
	// the bridge subscription.
	var publisher events.Publisher = hub
	if cfg.NatsURL != "" {
		bridge, err := realtime.NewNATSBridge(cfg.NatsURL, "storeapi", hub, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer bridge.Close()
		if err := bridge.Subscribe(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to subscribe to NATS")
		}
		publisher = bridge
	}

	services := service.NewServices(store, entities.NewRegistry(), publisher, cache, logger)

	router, err := graceful.New(gin.New(), graceful.WithAddr(cfg.ApiPort))
	if err != nil {
		panic(err)
	}
	defer router.Close()

	router.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	limits := endpoints.Limits{Default: cfg.Paging.DefaultLimit, Max: cfg.Paging.MaxLimit}
	endpoints.ResourceHandler(router, services, limits, logger)
	endpoints.SystemHandler(router, hub, checks)

	logger.Debug().Msgf("Starting store API on port %s", cfg.ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Msg(err.Error())
	}
}
