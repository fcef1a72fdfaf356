package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/deal-engine/internal/cache"
	"github.com/fairyhunter13/deal-engine/internal/config"
	"github.com/fairyhunter13/deal-engine/internal/events"
	"github.com/fairyhunter13/deal-engine/internal/handler"
	"github.com/fairyhunter13/deal-engine/internal/metrics"
	"github.com/fairyhunter13/deal-engine/internal/repository"
	"github.com/fairyhunter13/deal-engine/internal/service"
	"github.com/fairyhunter13/deal-engine/internal/validator"
	"github.com/fairyhunter13/deal-engine/pkg/clock"
	"github.com/fairyhunter13/deal-engine/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	// Trending cache (optional)
	var (
		trendingCache service.TrendingCache = cache.NoopTrendingCache{}
		cachePinger   handler.Pinger
		redisClient   *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rc := cache.NewTrendingCache(redisClient, cfg.Redis.TrendingTTL)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable at startup, continuing")
		}
		trendingCache, cachePinger = rc, rc
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TrendingTTL).Msg("trending cache enabled")
	}

	// Notification publisher (optional)
	var publisher interface {
		service.NotificationPublisher
		Close() error
	} = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewNotificationPublisher(
			events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic),
			time.Now,
		)
		log.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.NotificationTopic).
			Msg("notification publisher enabled")
	}

	reg := metrics.NewRegistry()

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Deal Engine",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	validate := validator.New()

	// Deal components (layered architecture)
	engine := service.NewDealEngine(clock.NewReal(), service.EngineOptions{
		PreserveForcedPriority: cfg.Recommend.PreserveForcedPriority,
	})
	dealService := service.NewDealService(service.DealServiceDeps{
		Pool:        pool,
		Engine:      engine,
		DealRepo:    repository.NewDealRepository(pool),
		AppliedRepo: repository.NewAppliedDealRepository(pool),
		ProfileRepo: repository.NewProfileRepository(pool),
		Cache:       trendingCache,
		Publisher:   publisher,
		Metrics:     reg,
	})
	dealHandler := handler.NewDealHandler(dealService, validate)
	calcHandler := handler.NewCalculationHandler(dealService, validate)
	recHandler := handler.NewRecommendationHandler(dealService, validate)

	healthHandler := handler.NewHealthHandler(pool, cachePinger)
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(reg.Handler()))

	api := app.Group("/api")
	api.Get("/categories", dealHandler.Categories)

	// Deal routes; static paths before /:id
	api.Post("/deals", dealHandler.CreateDeal)
	api.Get("/deals/trending", dealHandler.Trending)
	api.Post("/deals/validate", calcHandler.ValidateDeal)
	api.Post("/deals/calculate", calcHandler.CalculateDiscount)
	api.Post("/deals/calculate-total", calcHandler.CalculateTotal)
	api.Post("/deals/apply", calcHandler.ApplyDeal)
	api.Get("/deals/:id", dealHandler.GetDeal)

	// Recommendation routes
	api.Post("/recommendations", recHandler.Recommend)
	api.Post("/recommendations/optimal-mix", recHandler.OptimalMix)
	api.Get("/users/:user_id/notifications", recHandler.Notifications)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close side channels and the pool AFTER server shutdown
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("error closing notification publisher")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis client")
		}
	}

	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
