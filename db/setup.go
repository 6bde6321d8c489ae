package db

import (
	"time"

	"github.com/clubhub-dev/clubhub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()

	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Club{},
		&models.Membership{},
		&models.ClubRequest{},
		&models.Event{},
		&models.Registration{},
		&models.FinanceRecord{},
		&models.Notification{},
		&models.DeviceToken{},
		&models.NotificationSettings{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
