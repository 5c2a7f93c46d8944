// Package database opens the configured store and prepares its schema.
package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/models"
)

// Init opens a relational database for driver and migrates the schema.
func Init(driver, databaseURL string, production bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(databaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}

	level := logger.Info
	if production {
		level = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Each in-memory sqlite connection is its own database.
	if driver == config.DriverSQLite && strings.Contains(databaseURL, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tours, reviews and users tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tour{},
		&models.Review{},
	)
}
