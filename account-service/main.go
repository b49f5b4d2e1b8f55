package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"madajob-backend/shared/config"
	"madajob-backend/shared/database"
	"madajob-backend/shared/logger"
	"madajob-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.EnvFile != "" {
		zl.Info("environment loaded", zap.String("file", cfg.EnvFile))
	} else {
		zl.Warn(".env file not found, using system environment variables")
	}

	if cfg.Environment != config.EnvironmentLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	if cfg.CreateTables {
		if err := database.Migrate(db, zl); err != nil {
			zl.Fatal("migration failed", zap.Error(err))
		}
	}
	store := database.NewStore(db)
	defer func() { _ = store.Close() }()

	// Revocation cache is optional
	var revoked *cache.RevocationCache
	if cfg.RedisEnabled() {
		client, err := cache.Connect(ctx, cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zl.Warn("revocation cache disabled", zap.Error(err))
		} else {
			revoked = cache.NewRevocationCache(client)
			defer func() { _ = revoked.Close() }()
			zl.Info("revocation cache enabled", zap.String("addr", cfg.RedisAddr()))
		}
	}

	a, err := newApp(cfg, zl, store, revoked)
	if err != nil {
		zl.Fatal("failed to build services", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("account service listening", zap.String("addr", srv.Addr), zap.String("environment", string(cfg.Environment)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		zl.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
