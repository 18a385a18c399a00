package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/topprix/listing-service/config"
	_ "github.com/topprix/listing-service/docs"
	"github.com/topprix/listing-service/internal/aggregate"
	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/handlers"
	"github.com/topprix/listing-service/internal/middleware"
	"github.com/topprix/listing-service/internal/stores"
	"github.com/topprix/listing-service/internal/telemetry"
)

// @title Listing Service API
// @version 1.0
// @description Internal API for listing aggregation, temporal classification, and export.
// @BasePath /internal
// @securityDefinitions.apikey InternalAPIKey
// @in header
// @name X-Internal-API-Key
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting listing service")

	backendURL := config.GetBackendURL()
	if backendURL == "" {
		logger.Fatal().Msg("CATALOG_BACKEND_URL not set")
	}

	ctx := context.Background()

	shutdownTelemetry := telemetry.MustInit(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})

	client := backend.NewClient(backend.Config{
		BaseURL:           backendURL,
		APIKey:            cfg.Backend.APIKey,
		Timeout:           cfg.Backend.Timeout,
		MaxRetries:        cfg.Backend.MaxRetries,
		InitialBackoff:    time.Duration(cfg.Backend.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:        time.Duration(cfg.Backend.MaxBackoffMs) * time.Millisecond,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	}, logger)

	directory := stores.NewDirectory(client, stores.Config{
		CacheSize: cfg.StoreCache.Size,
		CacheTTL:  cfg.StoreCache.TTL,
	}, logger)

	aggregator := aggregate.New(client, aggregate.Config{
		UnpaginatedLimit: cfg.Aggregator.UnpaginatedLimit,
		MaxConcurrency:   cfg.Aggregator.MaxConcurrency,
	}, logger)

	h := handlers.New(aggregator, directory, logger)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.RequestIDMiddleware())
	internal.Use(middleware.InternalAuthMiddleware())
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)

		listings := internal.Group("/listings")
		{
			listings.GET("/:collection", h.ListListings)
			listings.GET("/:collection/export", h.ExportListings)
		}

		storeRoutes := internal.Group("/stores")
		{
			storeRoutes.GET("/:ownerId", h.OwnerStores)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "listing-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
