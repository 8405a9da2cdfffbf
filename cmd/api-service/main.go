package main

import (
	"context"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-insight/internal/api/config"
	delivery "golang-stock-insight/internal/api/delivery/http"
	_ "golang-stock-insight/internal/api/docs"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/postgres"
	"golang-stock-insight/pkg/redis"
	"golang-stock-insight/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	marketDataRepo := repository.NewYahooFinanceRepository(cfg, appLogger, &nethttp.Client{Timeout: 10 * time.Second})
	predictionRepo := repository.NewPredictionRepository(db.DB)
	predictionLogRepo := repository.NewPredictionLogRepository(db.DB)
	newsLogRepo := repository.NewNewsLogRepository(db.DB)
	insightRepo := repository.NewPaperInsightRepository(db.DB)

	// Initialize sentiment provider
	var sentimentAnalyzer repository.SentimentAnalyzer
	switch cfg.Sentiment.Provider {
	case common.SentimentProviderGemini:
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Sentiment.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		sentimentAnalyzer = repository.NewGeminiSentimentAnalyzer(cfg, appLogger, genAiClient)
	default:
		sentimentAnalyzer = repository.NewKeywordSentimentAnalyzer()
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	marketDataSvc := service.NewMarketDataService(appLogger, marketDataRepo, redisClient)
	predictionSvc := service.NewPredictionService(db.DB, appLogger, marketDataRepo, predictionRepo,
		[]service.Predictor{service.NewMovingAveragePredictor()}, cfg.Prediction.DefaultModel)
	evaluationSvc := service.NewEvaluationService(appLogger, predictionLogRepo, marketDataRepo)
	newsSvc := service.NewNewsService(cfg, appLogger, newsLogRepo, sentimentAnalyzer)
	dashboardSvc := service.NewDashboardService(appLogger, marketDataSvc, predictionSvc, newsSvc)
	insightSvc := service.NewInsightService(appLogger, insightRepo)
	collectorSvc := service.NewCollectorService(cfg, appLogger, newsSvc, evaluationSvc, notifier)

	// Start background collector
	go collectorSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	if len(cfg.API.CORSAllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.API.CORSAllowOrigins,
		}))
	}

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	dashboardHandler := delivery.NewDashboardHandler(dashboardSvc, appLogger)
	dashboardHandler.RegisterRoutes(apiV1.Group("/dashboard"))

	stockHandler := delivery.NewStockHandler(marketDataSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1.Group("/stocks"))

	predictionHandler := delivery.NewPredictionHandler(predictionSvc, appLogger)
	predictionHandler.RegisterRoutes(apiV1.Group("/predictions"))

	evaluationHandler := delivery.NewEvaluationHandler(evaluationSvc, appLogger)
	evaluationHandler.RegisterRoutes(apiV1.Group("/evaluation"))

	newsHandler := delivery.NewNewsHandler(newsSvc, appLogger)
	newsHandler.RegisterRoutes(apiV1.Group("/news"))

	insightHandler := delivery.NewInsightHandler(insightSvc, appLogger)
	insightHandler.RegisterRoutes(apiV1.Group("/insights"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(nethttp.StatusOK, echo.Map{
			"status":  "healthy",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != nethttp.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock Insight API
// @version 1.0
// @description Market data aggregation, naive predictions, and prediction accuracy tracking.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
