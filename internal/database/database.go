package database

import (
	"fmt"

	"agent-settings-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the SQLite file at path (":memory:" works too) and runs
// migrations. glebarez/sqlite is a pure Go driver, no CGO required.
func Open(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Agent{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// InitDB opens the database and stores it as the process-wide handle.
func InitDB(path string) error {
	db, err := Open(path, logger.Warn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
