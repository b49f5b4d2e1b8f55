package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"madajob-backend/shared/config"
	"madajob-backend/shared/database/models"
	"madajob-backend/shared/database/models/auth"
)

// Models lists every entity owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&auth.BlacklistedToken{},
	}
}

// getLogLevel returns appropriate log level based on environment
func getLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.Environment == config.EnvironmentLocal {
		return logger.Warn
	}
	return logger.Error
}

// GormConfig is shared by the postgres connection and the in-memory test databases.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}
}

// Open connects to postgres, configures the pool and verifies the connection.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(getLogLevel(cfg)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
	return db, nil
}

// Migrate creates missing tables and indexes.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	for _, model := range Models() {
		if !migrator.HasTable(model) {
			log.Info("creating table", zap.String("model", fmt.Sprintf("%T", model)))
		}
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}

// Drop removes every table owned by the service.
func Drop(db *gorm.DB) error {
	if err := db.Migrator().DropTable(Models()...); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return nil
}
