package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EgehanKilicarslan/socialnet/internal/api"
	"github.com/EgehanKilicarslan/socialnet/internal/config"
	"github.com/EgehanKilicarslan/socialnet/internal/database"
	"github.com/EgehanKilicarslan/socialnet/internal/database/repository"
	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
	"github.com/EgehanKilicarslan/socialnet/internal/handler"
	"github.com/EgehanKilicarslan/socialnet/internal/logger"
	"github.com/EgehanKilicarslan/socialnet/internal/middleware"
	"github.com/EgehanKilicarslan/socialnet/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("❌ [Go] Server exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires the application and serves until SIGINT or SIGTERM. Resources
// opened here are released by its defers before main exits.
func run(cfg *config.Config, appLogger *slog.Logger) error {
	appLogger.Info("🚀 [Go] Starting social network API...",
		"environment", cfg.AppEnv,
		"port", cfg.ApiServicePort,
	)

	// 3. Connect to Database
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// 5. Initialize Redis post cache
	var postCache database.PostCache
	redisCache, err := database.NewRedisPostCache(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis for post cache", "error", err)
		postCache = database.NewNoOpPostCache(appLogger)
	} else {
		postCache = redisCache
	}
	defer postCache.Close()

	// 6. Worker pool for password hashing
	hashPool := worker.NewPool(cfg.HashWorkers, appLogger)
	defer hashPool.Shutdown(shutdownTimeout)

	// 7. Initialize Services
	tokenService, err := service.NewTokenService(cfg)
	if err != nil {
		return fmt.Errorf("invalid token configuration: %w", err)
	}
	hasher := service.NewBcryptHasher(cfg, hashPool)
	authService := service.NewAuthService(userRepo, hasher, tokenService, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	postService := service.NewPostService(postRepo, postCache, appLogger)
	reconciler := service.NewLikeReconciler(postRepo, likeRepo, postCache, appLogger)
	likeService := service.NewLikeService(postRepo, likeRepo, reconciler, appLogger)

	// 8. Initialize Handlers & Middleware
	handlers := api.Handlers{
		Auth: handler.NewAuthHandler(authService, appLogger),
		User: handler.NewUserHandler(userService, appLogger),
		Post: handler.NewPostHandler(postService, appLogger),
		Like: handler.NewLikeHandler(likeService, appLogger),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)

	r := api.SetupRouter(handlers, authMiddleware, appLogger)

	// 9. Start HTTP Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	// 10. Graceful shutdown
	appLogger.Info("🛑 [Go] Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	appLogger.Info("👋 [Go] Server stopped")
	return nil
}
