package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/memetide/memetide/internal/ai"
	"github.com/memetide/memetide/internal/api"
	"github.com/memetide/memetide/internal/bot"
	"github.com/memetide/memetide/internal/cache"
	"github.com/memetide/memetide/internal/config"
	"github.com/memetide/memetide/internal/logger"
	"github.com/memetide/memetide/internal/middleware"
	"github.com/memetide/memetide/internal/pipeline"
	"github.com/memetide/memetide/internal/publish"
	"github.com/memetide/memetide/internal/scheduler"
	"github.com/memetide/memetide/internal/scrape"
	"github.com/memetide/memetide/internal/store"
	"github.com/memetide/memetide/internal/trends"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.Env != "production",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting memetide...")

	// Open the database
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	trendRepo := store.NewTrendRepository(db.DB)
	queueRepo := store.NewQueueRepository(db.DB)
	tweetRepo := store.NewTweetRepository(db.DB)
	mediaRepo := store.NewMediaRepository(db.DB)
	analyticsRepo := store.NewAnalyticsRepository(db.DB)

	// Dedup cache, falling back to in-memory when Redis is not
	// configured.
	var dedup cache.Dedup
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		dedup = redisClient
	} else {
		log.Warn().Msg("Redis not configured, using in-memory dedup cache")
		dedup = cache.NewMockDedup()
	}
	defer func() {
		if err := dedup.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing dedup cache")
		}
	}()

	adapter, err := ai.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize AI adapter")
	}

	source := scrape.NewSource(cfg)
	tracker := trends.NewTracker(trendRepo)

	var publisher publish.Publisher
	if cfg.TwitterBearerToken != "" {
		publisher = publish.NewTwitterClient(cfg)
	}

	generator := pipeline.NewGenerator(
		adapter,
		ai.NewPostProcessor(cfg.MaxContentLength),
		tracker,
		source,
		mediaRepo,
		queueRepo,
		tweetRepo,
		publisher,
	)
	learner := pipeline.NewLearner(adapter, mediaRepo, dedup, source, cfg.CacheTTL)

	b := bot.New(cfg, scheduler.New(), tracker, generator, learner, source,
		publisher, tweetRepo, analyticsRepo, trendRepo)

	botCtx, botCancel := context.WithCancel(context.Background())
	defer botCancel()
	b.Start(botCtx)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	handlers := api.NewHandlers(queueRepo, tweetRepo, trendRepo, mediaRepo, analyticsRepo, b)
	api.SetupRoutes(app, handlers, cfg)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	// Stop scheduled jobs first so nothing writes during shutdown
	b.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
