package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/oceandive/divemarket/internal/config"
	"github.com/oceandive/divemarket/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for all models. The unique indexes on
// users.email and (provider, provider_id) are the final arbiters for
// concurrent registration and linking; pre-insert checks are a courtesy.
func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.MemberProfile{},
		&models.ProviderProfile{},
		&models.AdminProfile{},
		&models.SocialAccount{},
		&models.AccessToken{},
		&models.SystemLog{},
	)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
