package main

// @title           Poll Service API
// @version         1.0
// @description     A RESTful API for creating polls, casting votes, and reading live results
// @host            localhost:8080
// @BasePath        /api
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poll-service/internal/api/handlers"
	"poll-service/internal/api/middleware"
	"poll-service/internal/api/routes"
	"poll-service/internal/cache"
	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/events"
	"poll-service/internal/ratelimit"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting poll server")

	// Redis backs the shared cache and rate limiter; skip the connection
	// entirely when both are configured for in-process memory.
	var redisClient *database.RedisClient
	if cfg.Cache.Backend == "redis" || cfg.RateLimit.Backend == "redis" {
		redisClient, err = database.NewRedisConnection(&cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Storage adapters
	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)

	// Shared backends, constructed once and injected
	var resultCache cache.Cache
	if cfg.Cache.Backend == "redis" {
		resultCache = cache.NewRedisCache(redisClient.GetClient())
	} else {
		resultCache = cache.NewMemoryCache()
	}

	budgets := ratelimit.BudgetsFromConfig(&cfg.RateLimit)
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Backend == "redis" {
		limiter = ratelimit.NewRedisLimiter(redisClient.GetClient(), budgets)
	} else {
		limiter = ratelimit.NewMemoryLimiter(budgets)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(&cfg.Kafka)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Services
	pollService := services.NewPollService(pollRepo, voteRepo, resultCache, cfg.Cache)
	voteService := services.NewVoteService(pollRepo, voteRepo, resultCache, publisher)
	resultService := services.NewResultService(pollRepo, voteRepo, resultCache, cfg.Cache)

	// HTTP surface
	router := routes.NewRouter(
		handlers.NewPollHandler(pollService, resultService),
		handlers.NewVoteHandler(voteService),
		middleware.NewRateLimitMiddleware(limiter),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
