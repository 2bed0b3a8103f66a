package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	enrichapp "github.com/rakuda/backend/internal/application/enrichment"
	"github.com/rakuda/backend/internal/domain/enrichment"
	"github.com/rakuda/backend/internal/infrastructure/ai"
	"github.com/rakuda/backend/internal/infrastructure/cache"
	"github.com/rakuda/backend/internal/infrastructure/config"
	"github.com/rakuda/backend/internal/infrastructure/logger"
	"github.com/rakuda/backend/internal/infrastructure/persistence"
	"github.com/rakuda/backend/internal/infrastructure/telemetry"
	"github.com/rakuda/backend/internal/interfaces/http/handler"
	"github.com/rakuda/backend/internal/interfaces/http/middleware"
	"github.com/rakuda/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Rakuda Enrichment Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// OpenTelemetry tracing and metrics
	telemetryProvider, err := telemetry.NewProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis-backed AI response cache (optional)
	var resultCache enrichapp.ResultCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, AI responses will not be cached", zap.Error(err))
		} else {
			resultCache = cache.NewRedisEnrichmentCache(redisClient, cfg.Redis.CacheTTL, log)
			log.Info("AI response cache enabled", zap.Duration("ttl", cfg.Redis.CacheTTL))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}

	// AI classifier (optional, keyed off the API key)
	var classifier enrichment.Classifier
	if cfg.AI.Enabled() {
		classifier = ai.NewClient(cfg.AI, log)
		log.Info("AI classifier enabled", zap.String("model", cfg.AI.Model))
	} else {
		log.Info("AI classifier disabled, running rule-only enrichment")
	}

	// Application services
	enrichmentService := enrichapp.NewEnrichmentService(classifier, resultCache, log)
	pricingService := enrichapp.NewPricingService(enrichapp.PricingConfig{
		ExchangeRate:    decimal.NewFromFloat(cfg.Pricing.ExchangeRate),
		BaseProfitRate:  decimal.NewFromFloat(cfg.Pricing.BaseProfitRate),
		PlatformFeeRate: decimal.NewFromFloat(cfg.Pricing.PlatformFeeRate),
		PaymentFeeRate:  decimal.NewFromFloat(cfg.Pricing.PaymentFeeRate),
		ShippingCostUSD: decimal.NewFromFloat(cfg.Pricing.ShippingCostUSD),
	})
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	taskService := enrichapp.NewTaskService(taskRepo, enrichmentService, log)

	// Gin engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if telemetryProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Routes
	router.NewRouter(engine).
		Register(handler.NewEnrichmentHandler(enrichmentService, pricingService)).
		Register(handler.NewTaskHandler(taskService)).
		Register(handler.NewSystemHandler(db)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := telemetryProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
