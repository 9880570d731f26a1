package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/mattn/go-sqlite3"              // SQLite driver

	"larder/internal/models"
)

var DB *gorm.DB

// InitDB opens the database connection and migrates the schema. The driver
// is "sqlite3" or "postgres", selected by configuration.
func InitDB(driver, dsn string) error {
	var err error
	DB, err = gorm.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s database: %w", driver, err)
	}

	DB.AutoMigrate(
		&models.InventoryItem{},
		&models.Recipe{},
		&models.CustomUnitConversion{},
	)
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
