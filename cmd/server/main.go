package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/qlture/engagement/internal/cache"
	"github.com/qlture/engagement/internal/config"
	"github.com/qlture/engagement/internal/database"
	"github.com/qlture/engagement/internal/docstore"
	"github.com/qlture/engagement/internal/handlers"
	"github.com/qlture/engagement/internal/logging"
	"github.com/qlture/engagement/internal/middleware"
	"github.com/qlture/engagement/internal/routes"
	"github.com/qlture/engagement/internal/services"
	"github.com/qlture/engagement/internal/stores"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Relational store
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	logging.Setup(pgLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Document store
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	doc, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.SearchIndex)
	if err != nil {
		cancel()
		slog.Error("mongo connection failed", "error", err)
		os.Exit(1)
	}
	if err := doc.EnsureIndexes(ctx); err != nil {
		cancel()
		slog.Error("mongo index creation failed", "error", err)
		os.Exit(1)
	}

	// Search cache (optional)
	var redisClient *redis.Client
	var searchCache services.SearchCache
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("search cache disabled", "error", err)
		} else {
			searchCache = cache.NewSearchCache(redisClient)
			slog.Info("search cache connected", "ttl", cfg.SearchCacheTTL)
		}
	}
	cancel()

	// Services
	st := stores.Build(doc, database.DB)
	var filter *services.TextFilter
	if cfg.ContentFilter {
		filter = services.NewTextFilter()
	}
	stats := services.NewStatsSynchronizer(st)
	reviewService := services.NewReviewService(st, stats, filter)
	commentService := services.NewCommentService(st, stats, filter)
	feedService := services.NewFeedService(st)

	// Handlers
	h := routes.Handlers{
		Health: handlers.NewHealthHandler(
			func(context.Context) error { return database.Ping() },
			doc.Ping,
			cachePinger(redisClient),
		),
		Reviews:      handlers.NewReviewHandler(reviewService, feedService),
		Comments:     handlers.NewCommentHandler(commentService),
		ReviewLikes:  handlers.NewLikeHandler(services.NewReviewLikes(st)),
		CommentLikes: handlers.NewLikeHandler(services.NewCommentLikes(st)),
		ContentLikes: handlers.NewLikeHandler(services.NewContentLikes(st)),
		Wishlist:     handlers.NewWishlistHandler(services.NewWishlistService(st, stats), feedService),
		History:      handlers.NewHistoryHandler(services.NewHistoryService(st, stats), feedService),
		Follows:      handlers.NewFollowHandler(services.NewFollowService(st)),
		Search:       handlers.NewSearchHandler(services.NewSearchService(st.Search, searchCache, cfg.SearchCacheTTL)),
		Admin:        handlers.NewAdminHandler(stats),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(middleware.Metrics())
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	routes.Setup(app, cfg, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := doc.Close(closeCtx); err != nil {
		slog.Error("mongo close error", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func cachePinger(client *redis.Client) handlers.Pinger {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
