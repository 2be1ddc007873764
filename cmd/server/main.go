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

	"github.com/storekart/variant-service/config"
	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/gs1"
	"github.com/storekart/variant-service/internal/handlers"
	"github.com/storekart/variant-service/internal/httpclient"
	"github.com/storekart/variant-service/internal/httpclient/ratelimit"
	"github.com/storekart/variant-service/internal/middleware"
	"github.com/storekart/variant-service/internal/session"
	"github.com/storekart/variant-service/internal/sweepers"
	"github.com/storekart/variant-service/internal/telemetry"
	"github.com/storekart/variant-service/internal/variant"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting variant service")

	ctx := context.Background()

	telemetryCleanup, err := telemetry.Init(ctx, telemetry.GetConfigFromEnv())
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry init failed, continuing without it")
		telemetryCleanup = func(context.Context) error { return nil }
	}

	outbound := httpclient.NewClient(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
		MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
	}, cfg.Catalog.Timeout)

	catalogClient := catalog.NewClient(outbound, catalog.ClientConfig{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	})
	catalogCache := catalog.NewCache(catalogClient, cfg.Catalog.CacheTTL)
	if len(cfg.Catalog.WarmupIDs) > 0 {
		go catalogCache.Warm(ctx, cfg.Catalog.WarmupIDs, 3)
	}

	gs1Client := gs1.NewClient(outbound, gs1.ClientConfig{
		BaseURL: cfg.GS1.BaseURL,
		APIKey:  cfg.GS1.APIKey,
		Timeout: cfg.GS1.Timeout,
	})

	engineCfg := variant.DefaultEngineConfig()
	if cfg.Engine.ExplosionWarnThreshold > 0 {
		engineCfg.ExplosionWarnThreshold = cfg.Engine.ExplosionWarnThreshold
	}
	engineCfg.MaxAttributes = cfg.Engine.MaxAttributes

	sessionStore := session.NewStore(cfg.Sessions.TTL)
	sessionStore.SetEvictFunc(handlers.DropEANWatch)
	sessionSweeper := sweepers.NewSessionSweeper(sessionStore, logger, cfg.Sessions.SweepInterval)
	go sessionSweeper.Start(ctx)

	handlers.InitEngine(catalogCache, engineCfg)
	handlers.InitGs1(gs1Client, cfg.GS1.Debounce)
	handlers.InitSessions(sessionStore)

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

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)

		variants := internal.Group("/variants")
		{
			variants.POST("/generate", handlers.GenerateCombinations)
			variants.POST("/reconcile", handlers.ReconcileVariants)
			variants.POST("/merge", handlers.MergeVariants)
			variants.POST("/pack", handlers.BuildPackVariant)
			variants.POST("/rejection", handlers.EvaluateRejection)
			variants.POST("/export", handlers.ExportVariants)
		}

		sessions := internal.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession)
			sessions.GET("/:sessionId", handlers.GetSession)
			sessions.POST("/:sessionId/impact", handlers.StageSessionImpact)
			sessions.POST("/:sessionId/resolve", handlers.ResolveSession)
			sessions.PUT("/:sessionId/variants", handlers.UpdateSessionVariants)
			sessions.PUT("/:sessionId/ean", handlers.WatchSessionEAN)
			sessions.GET("/:sessionId/ean", handlers.GetSessionEANStatus)
		}

		internal.GET("/gs1/:ean", handlers.LookupEAN)
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
	sessionSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := telemetryCleanup(shutdownCtx); err != nil {
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

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "variant-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

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
