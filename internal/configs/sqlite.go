package config

import (
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "todo-api.com/todo-api/internal/models"
)

// NewDatabaseClient opens the store, retrying the initial connection a
// bounded number of times with a fixed delay. Serving without storage is
// pointless, so exhausted retries are fatal.
func NewDatabaseClient(cfg Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	delay := time.Duration(cfg.ConnectRetryDelaySeconds) * time.Second
	for attempt := 1; attempt <= cfg.ConnectRetries; attempt++ {
		db, err = gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("db open attempt %d/%d failed: %v", attempt, cfg.ConnectRetries, err)
		if attempt < cfg.ConnectRetries {
			time.Sleep(delay)
		}
	}
	if err != nil {
		log.Fatalf("db open failed after %d attempts: %v", cfg.ConnectRetries, err)
	}

	if err := db.AutoMigrate(&model.Task{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db handle unavailable: %v", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBIdleTimeoutSeconds) * time.Second)

	return db
}
