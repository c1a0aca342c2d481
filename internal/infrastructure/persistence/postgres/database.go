// Package postgres provides the PostgreSQL database setup for deployments
// that outgrow the embedded SQLite store.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/platemuse/v1/internal/infrastructure/persistence/gorm"
)

// SetupDatabase connects to PostgreSQL and runs auto-migration
func SetupDatabase(dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&gormModels.UserModel{},
		&gormModels.FamilyProfileModel{},
		&gormModels.MealHistoryModel{},
		&gormModels.MealPlanModel{},
		&gormModels.ShoppingListModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
