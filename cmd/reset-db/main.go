package main

import (
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

	if cfg.Environment == config.EnvironmentProduction {
		zl.Fatal("refusing to reset a production database")
	}

	zl.Info("starting database reset")

	db, err := database.Open(cfg, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}

	if err := database.Drop(db); err != nil {
		zl.Fatal("database reset failed", zap.Error(err))
	}

	zl.Info("database reset completed, run cmd/seed to recreate tables and the super admin")
}
