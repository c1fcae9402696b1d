package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/memetide/memetide/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalidTransition is returned when a queue status change is not legal.
var ErrInvalidTransition = errors.New("invalid status transition")

// Database wraps the shared gorm connection pool. Each job execution gets
// its own session through gorm's pool, so concurrent jobs never share a
// mutable connection.
type Database struct {
	DB *gorm.DB
}

// Open opens (creating if needed) the sqlite database and runs migrations.
func Open(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Trend{},
		&models.QueueItem{},
		&models.Tweet{},
		&models.AnalyzedMedia{},
		&models.DailyAnalytics{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
