package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"adstxt-validator/internal/cache"
	"adstxt-validator/internal/cache/domainCache"
	"adstxt-validator/internal/catalog"
	"adstxt-validator/internal/config"
	"adstxt-validator/internal/crosscheck"
	"adstxt-validator/internal/fetcher"
	"adstxt-validator/internal/history"
	"adstxt-validator/internal/http"
	"adstxt-validator/internal/logger"
	"adstxt-validator/internal/messages"
	"adstxt-validator/internal/metrics"
	"adstxt-validator/internal/models"
	"adstxt-validator/internal/optimizer"
	"adstxt-validator/internal/parser"
	"adstxt-validator/internal/ratelimit"
	"adstxt-validator/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection for logging
	db, err := logger.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize logger
	appLogger := logger.NewDatabaseLogger(db)
	defer appLogger.Close()

	// Create internal log event for startup
	startupCtx := logger.WithLogEvent(context.Background(), logger.NewInternalLogEvent())

	appLogger.LogInfo(startupCtx, logger.OpServerStart, "Starting ads.txt validation API", map[string]interface{}{
		"version": "1.0.0",
		"config": map[string]interface{}{
			"port":       cfg.Port,
			"cache_type": cfg.CacheType,
			"cache_ttl":  cfg.CacheTTL.Seconds(),
			"locale":     cfg.MessageLocale,
		},
	})

	// Initialize cache and domain cache
	cacheService, err := initializeCache(cfg)
	if err != nil {
		appLogger.LogError(
			startupCtx,
			"cache_init",
			"",
			"Failed to initialize cache",
			err,
			models.LogSeverityHigh,
			nil,
		)
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	domainCacheService := domainCache.New(cacheService, cfg.CacheTTL)

	// Shared pool for the sellers.json catalog and validation history
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	var appMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		appMetrics = metrics.New()
	}

	catalogStore, err := catalog.NewPostgresStore(pool)
	if err != nil {
		log.Fatalf("Failed to initialize sellers.json catalog: %v", err)
	}
	cachedCatalog := catalog.NewCachedStore(catalogStore, cacheService, cfg.CacheTTL, appMetrics)

	historyStore, err := history.NewPostgresStore(pool)
	if err != nil {
		log.Fatalf("Failed to initialize validation history: %v", err)
	}

	// Initialize components
	adsTxtParser := parser.NewParser(appLogger)
	adsTxtFetcher := fetcher.NewHTTPFetcher(cfg.FetchTimeout)
	crossChecker := crosscheck.NewChecker(cachedCatalog, appLogger, cfg.MaxConcurrentLookups, appMetrics)
	lineOptimizer := optimizer.New(adsTxtParser)
	resolver := messages.NewResolver(cfg.MessageLocale, cfg.HelpBaseURL)
	ingester := catalog.NewIngester(adsTxtFetcher, catalogStore, appLogger)

	rateLimiter := ratelimit.NewTwoTierRateLimiter(
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.PerIPRateLimitPerSec),
		int64(cfg.PerIPRateLimitPerSec),
	)

	// Initialize service
	validationService := validation.NewService(validation.Options{
		Parser:        adsTxtParser,
		Fetcher:       adsTxtFetcher,
		CrossCheck:    crossChecker,
		Catalog:       cachedCatalog,
		Ingester:      ingester,
		Optimizer:     lineOptimizer,
		Resolver:      resolver,
		Cache:         domainCacheService,
		History:       historyStore,
		Logger:        appLogger,
		Metrics:       appMetrics,
		CacheTTL:      cfg.CacheTTL,
		MaxConcurrent: cfg.MaxConcurrentLookups,
	})

	// Initialize HTTP handler
	handler := http.NewHandler(validationService, cachedCatalog, historyStore, appLogger)

	// Initialize server
	addr := ":" + cfg.Port
	server := http.NewServer(
		http.ServerConfig{
			Addr:           addr,
			ReadTimeout:    cfg.ServerReadTimeout,
			WriteTimeout:   cfg.ServerWriteTimeout,
			MetricsEnabled: cfg.MetricsEnabled,
		},
		handler,
		appLogger,
		rateLimiter,
	)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLogger.LogError(
				context.Background(),
				logger.OpServerStart,
				"",
				"Server failed to start",
				err,
				models.LogSeverityHigh,
				map[string]interface{}{"addr": addr},
			)
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	fmt.Printf("🚀 ads.txt validation API server started on %s\n", addr)
	fmt.Println("📋 Available endpoints:")
	fmt.Println("  GET  /health                    - Health check")
	fmt.Println("  GET  /api/validate/{domain}     - Validate a domain's ads.txt")
	fmt.Println("  POST /api/validate              - Validate raw file content")
	fmt.Println("  POST /api/batch-validate        - Validate multiple domains")
	fmt.Println("  POST /api/optimize              - Optimize file content")
	fmt.Println("  GET  /api/cache-info/{domain}   - Sellers.json snapshot freshness")
	fmt.Println("  GET  /api/history/{domain}      - Past validation summaries")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n🛑 Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		appLogger.LogError(
			ctx,
			logger.OpServerShutdown,
			"",
			"Server shutdown error",
			err,
			models.LogSeverityMedium,
			nil,
		)
		log.Printf("Server shutdown error: %v", err)
	} else {
		appLogger.LogInfo(ctx, logger.OpServerShutdown, "Server shutdown completed successfully", nil)
		fmt.Println("✅ Server shutdown completed")
	}
}

func initializeCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.CacheType {
	case "redis":
		return cache.NewRedisCache(cfg.RedisURL)
	case "memory":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}
