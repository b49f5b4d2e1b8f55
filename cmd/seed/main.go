package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"madajob-backend/shared/config"
	"madajob-backend/shared/database"
	"madajob-backend/shared/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("starting database seeding")

	db, err := database.Open(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	store := database.NewStore(db)
	defer func() { _ = store.Close() }()

	if err := database.Migrate(db, zl); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	created, err := database.CreateSuperAdmin(context.Background(), store, database.SuperAdmin{
		Name:     cfg.AdminName,
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, zl)
	if err != nil {
		zl.Fatal("failed to create super admin", zap.Error(err))
	}

	zl.Info("database seeding completed", zap.Bool("super_admin_created", created))
}
