package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"CourtPrint/app/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// Initialize opens the agent database. When DATABASE_URL points at the
// venue's central Postgres the agent records jobs there; otherwise it
// falls back to a local CGO-free SQLite file next to the config.
func Initialize(dataDir string) error {
	var err error

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to central database: %w", err)
		}
	} else {
		dbPath := filepath.Join(dataDir, "courtprint.db")
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err = gorm.Open(sqlite.Open(dbPath), gormConfig)
		if err != nil {
			return fmt.Errorf("failed to open local database: %w", err)
		}
	}

	return runMigrations()
}

// runMigrations creates the agent's tables
func runMigrations() error {
	return db.AutoMigrate(
		&models.PrinterConfig{},
		&models.PrintJob{},
	)
}
