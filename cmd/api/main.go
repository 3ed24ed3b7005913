// @title Psychoreport API
// @version 1.0
// @description Psychometric report generation: reliability risk reports and OCEAN personality reports with AI narratives.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"psychoreport/internal/adapter"
	"psychoreport/internal/adapter/adjustment"
	"psychoreport/internal/adapter/llm"
	"psychoreport/internal/cache"
	"psychoreport/internal/config"
	"psychoreport/internal/database"
	"psychoreport/internal/domain"
	"psychoreport/internal/handler"
	"psychoreport/internal/logger"
	"psychoreport/internal/metrics"
	"psychoreport/internal/middleware"
	"psychoreport/internal/repository"
	"psychoreport/internal/service"

	_ "psychoreport/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Connect to database
	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional: without it the analysis cache reads Oracle directly
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, continuing without front cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	}

	// Initialize repositories
	attemptRepository := repository.NewExamAttemptRepository(db)
	personalityRepository := repository.NewPersonalityResultRepository(db)
	reportConfigRepository := repository.NewReportConfigRepository(db)
	promptRepository := repository.NewAIPromptConfigRepository(db)
	analysisRepository := repository.NewAnalysisCacheRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Completion client; nil when no credential is configured
	completionClient, err := llm.NewCompletionClient(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create completion client", zap.Error(err))
	}
	if closer, ok := completionClient.(io.Closer); ok {
		defer closer.Close()
	}
	appLogger.Info("Completion client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Bool("enabled", completionClient != nil))

	appMetrics := metrics.New()

	// Initialize services
	narrator := service.NewNarrativeGenerator(completionClient, promptRepository, cfg.LLM, appMetrics)
	analysisCache := service.NewAnalysisCacheService(analysisRepository, txManager, cacheAdapter, cfg.Analysis, appMetrics)
	deps := &service.ReportDependencies{
		Attempts:         attemptRepository,
		Personality:      personalityRepository,
		Configs:          reportConfigRepository,
		Adjuster:         adjustment.New(cfg.Adjustment.URL, cfg.Adjustment.Timeout, &http.Client{}),
		Narrator:         narrator,
		Analyses:         analysisCache,
		Thresholds:       cfg.Scoring,
		AlgorithmVersion: cfg.Analysis.AlgorithmVersion,
		Metrics:          appMetrics,
	}
	reliabilityService := service.NewReliabilityReportService(deps)
	personalityService := service.NewPersonalityReportService(deps)

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reliabilityService, personalityService)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))

	handler.RegisterRoutes(app.Group("/api"), reportHandler, healthHandler, middleware.NewValidationMiddleware())

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
