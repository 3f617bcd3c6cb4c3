package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/internal/api/handlers"
	"github.com/culture-explorer/backend/internal/cache/redis"
	"github.com/culture-explorer/backend/internal/corpus"
	"github.com/culture-explorer/backend/internal/identity"
	"github.com/culture-explorer/backend/internal/metrics"
	"github.com/culture-explorer/backend/internal/middleware/auth"
	"github.com/culture-explorer/backend/internal/middleware/ratelimit"
	"github.com/culture-explorer/backend/internal/middleware/security"
	"github.com/culture-explorer/backend/internal/orchestrator"
	"github.com/culture-explorer/backend/internal/storage/sqlite"
	"github.com/culture-explorer/backend/internal/validation"
	"github.com/culture-explorer/backend/pkg/config"
	appLogger "github.com/culture-explorer/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Culture Explorer corpus API server")

	metrics.Init()

	corpusStore, err := corpus.NewStore(cfg.Corpus.DataFile, cfg.Corpus.SnapshotDir)
	if err != nil {
		appLogger.Fatal("Failed to create corpus store", zap.Error(err))
	}
	metrics.CorpusEntries.Set(float64(len(corpusStore.Load())))

	identityStore, err := identity.NewStore(cfg.Identity.UsersFile)
	if err != nil {
		appLogger.Fatal("Failed to create identity store", zap.Error(err))
	}

	attemptLog, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create submission log", zap.Error(err))
	}
	defer attemptLog.Close()

	if err := attemptLog.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize submission log schema", zap.Error(err))
	}

	chain := validation.DefaultChain(
		validation.NewOpenAIBackend(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.TimeoutSec),
		validation.NewGeminiBackend(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.MaxTokens, cfg.Gemini.TimeoutSec),
	)

	feedHub := handlers.NewFeedHub()

	orch := orchestrator.New(chain, corpusStore, identityStore).
		WithAttemptLog(attemptLog).
		WithFeed(feedHub)

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, verdict cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			orch.WithVerdictCache(redisClient, time.Duration(cfg.Redis.VerdictTTLMinutes)*time.Minute)
		}
	}

	tokenIssuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer rateLimiter.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Accept-Language",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(auth.Middleware(tokenIssuer, false))
	app.Use(rateLimiter.Middleware())

	authHandler := handlers.NewAuthHandler(identityStore, tokenIssuer)
	submissionHandler := handlers.NewSubmissionHandler(orch)
	corpusHandler := handlers.NewCorpusHandler(corpusStore)
	maintenanceHandler := handlers.NewMaintenanceHandler(corpusStore, attemptLog)

	api := app.Group("/api/v1")

	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/profile", auth.Middleware(tokenIssuer, true), authHandler.Profile)

	api.Post("/contributions", submissionHandler.Submit)

	api.Get("/corpus", corpusHandler.List)
	api.Get("/corpus/recent", corpusHandler.Recent)
	api.Get("/corpus/search", corpusHandler.Search)
	api.Get("/corpus/stats", corpusHandler.Statistics)
	api.Get("/corpus/export", corpusHandler.Export)
	api.Get("/festivals", corpusHandler.Festivals)

	api.Get("/maintenance/audit", maintenanceHandler.Audit)
	api.Post("/maintenance/dedupe", maintenanceHandler.Deduplicate)
	api.Post("/maintenance/snapshot", maintenanceHandler.Snapshot)
	api.Get("/maintenance/submissions", maintenanceHandler.Submissions)
	api.Get("/maintenance/acceptances", maintenanceHandler.Acceptances)

	app.Get("/ws/feed", websocket.New(feedHub.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
