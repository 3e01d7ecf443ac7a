package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"scamshield/internal/api"
	"scamshield/internal/api/handlers"
	"scamshield/internal/config"
	"scamshield/internal/domain/services"
	"scamshield/internal/infrastructure/cache"
	"scamshield/internal/ml"
	"scamshield/internal/reputation"
	"scamshield/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting ScamShield")

	// Load classifier artifacts. Missing artifacts are fatal: the service
	// must not serve traffic without a working classifier.
	classifier, err := ml.Load(cfg.Model)
	if err != nil {
		log.Fatal().Err(err).
			Str("classifier_path", cfg.Model.ClassifierPath).
			Str("vectorizer_path", cfg.Model.VectorizerPath).
			Msg("failed to load classifier artifacts")
	}
	log.Info().
		Str("classifier_path", cfg.Model.ClassifierPath).
		Str("vectorizer_path", cfg.Model.VectorizerPath).
		Msg("classifier loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis (optional - the service runs uncached without it)
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Reputation checkers. Missing API keys degrade the corresponding
	// checker to skipped reports; they never block startup.
	if cfg.Checkers.SafeBrowsing.APIKey == "" {
		log.Warn().Msg("Safe Browsing API key not set - URL threat checks will be skipped")
	}
	if cfg.Checkers.Search.APIKey == "" || cfg.Checkers.Search.EngineID == "" {
		log.Warn().Msg("search API credentials not set - phone reputation checks will be skipped")
	}

	unfurler := reputation.NewUnfurler(cfg.Checkers.Timeout, redisCache, cfg.Checkers.CacheTTL, log)
	safeBrowsing := reputation.NewSafeBrowsingChecker(cfg.Checkers.SafeBrowsing.APIKey,
		cfg.Checkers.Timeout, redisCache, cfg.Checkers.CacheTTL, log)
	domainAge := reputation.NewDomainAgeChecker(cfg.Checkers.Timeout, redisCache, cfg.Checkers.CacheTTL, log)
	phoneSearch := reputation.NewPhoneSearchChecker(cfg.Checkers.Search.APIKey, cfg.Checkers.Search.EngineID,
		cfg.Checkers.Timeout, redisCache, cfg.Checkers.CacheTTL, log)

	// Assemble the analyzer
	analyzer := services.NewAnalyzer(
		services.NewRuleMatcher(log),
		classifier,
		services.NewExtractor(),
		unfurler,
		safeBrowsing,
		domainAge,
		phoneSearch,
		log,
	)
	log.Info().Msg("analyzer initialized")

	// Initialize handlers and router
	h := handlers.NewHandlers(handlers.Dependencies{
		Analyzer: analyzer,
		Cache:    redisCache,
		Logger:   log,
	})

	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
