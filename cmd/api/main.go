package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/adscope/tiktok-bridge/internal/cache"
	"github.com/adscope/tiktok-bridge/internal/config"
	"github.com/adscope/tiktok-bridge/internal/database"
	"github.com/adscope/tiktok-bridge/internal/logging"
	"github.com/adscope/tiktok-bridge/internal/middleware"
	"github.com/adscope/tiktok-bridge/internal/storage"
	"github.com/adscope/tiktok-bridge/internal/tiktok"
	"github.com/adscope/tiktok-bridge/internal/tracing"
)

// API holds the handler dependencies
type API struct {
	cfg       *config.Config
	logger    *logging.Logger
	repo      *database.Repository
	store     *cache.Store
	archive   *storage.Storage
	tiktok    *tiktok.Service
	tiktokCfg *tiktok.Config
}

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Initialize JWT secret for dashboard auth
	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer closer.Close()
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize the shared Redis store (rate-limit counters, snapshot cache)
	store, err := cache.NewStore(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()

	// Initialize the media archive
	var archive *storage.Storage
	if cfg.Storage.Enabled {
		archive, err = storage.New(cfg.Storage)
		if err != nil {
			logger.Fatalf("Failed to initialize storage: %v", err)
		}
	}

	// Resolve TikTok app configuration
	tiktokCfg, err := tiktok.NewConfig(cfg.TikTok)
	if err != nil {
		logger.Fatalf("Failed to resolve TikTok config: %v", err)
	}

	api := &API{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		store:     store,
		archive:   archive,
		tiktok:    tiktok.NewService(tiktokCfg),
		tiktokCfg: tiktokCfg,
	}

	rateLimiter := middleware.NewRateLimiter(store, logger, cfg.RateLimit)
	router := setupRouter(api, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
