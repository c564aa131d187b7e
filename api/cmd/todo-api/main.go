package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"todoapp/api/internal/api/handlers"
	"todoapp/api/internal/api/middleware"
	"todoapp/api/internal/api/router"
	"todoapp/api/internal/config"
	"todoapp/api/internal/core/services"
	"todoapp/api/internal/db/postgres"
	"todoapp/api/internal/infrastructure/crypto"
)

func main() {
	// --- 1. Configuration & Logging ---
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to parse .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("FATAL: invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("Booting todo API", "env", cfg.Environment)

	// --- 2. Outbound Infrastructure ---
	ctx := context.Background()

	dbPool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("FATAL: DB failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := postgres.Migrate(ctx, dbPool, logger); err != nil {
		logger.Error("FATAL: migrations failed", "error", err)
		os.Exit(1)
	}

	// --- 3. Dependency Injection ---
	cryptoService, err := crypto.NewService(logger)
	if err != nil {
		logger.Error("FATAL: crypto service failed", "error", err)
		os.Exit(1)
	}

	todoRepo := postgres.NewTodoRepository(postgres.NewSQLX(dbPool))
	todoService := services.NewTodoService(todoRepo, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	bgCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()
	go rateLimiter.Run(bgCtx)

	// --- 4. HTTP Gateway ---
	mux := router.NewRouter(router.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		TodoHandler:    handlers.NewTodoHandler(todoService),
		CryptoHandler:  handlers.NewCryptoHandler(cryptoService, logger),
		HealthHandler:  handlers.NewHealthHandler(dbPool),
		RateLimiter:    rateLimiter,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// --- 5. Graceful Exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Todo API listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: Server crashed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("Shutting down...")
	cancelBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ERROR: Forced shutdown", "error", err)
	}
	logger.Info("Todo API stopped")
}
