package db

import (
	"fmt"
	"log/slog"
	"time"

	"biolink/internal/config"
	"biolink/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and sizes the connection pool.
func Open(cfg config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	slog.Info("database connection established")
	return gdb, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("database migration completed")
	return nil
}
