package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"valorvista/server/internal/models"
)

// Database wraps the sqlite-backed valuation history store.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Valuation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate valuations table: %w", err)
	}

	return &Database{db: db}, nil
}

// GetDB exposes the underlying gorm handle for transactional writers.
func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertValuations writes a batch of history rows inside the given
// transaction handle.
func InsertValuations(tx *gorm.DB, batch []*models.Valuation) error {
	if len(batch) == 0 {
		return nil
	}
	return tx.Create(batch).Error
}

// RecentValuations returns the newest history rows, newest first.
func (d *Database) RecentValuations(limit int) ([]models.Valuation, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.Valuation
	err := d.db.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ValuationStats aggregates the persisted predictions.
func (d *Database) ValuationStats() (*models.ValuationStats, error) {
	var predictions []float64
	if err := d.db.Model(&models.Valuation{}).Pluck("prediction", &predictions).Error; err != nil {
		return nil, err
	}

	stats := &models.ValuationStats{Count: int64(len(predictions))}
	if len(predictions) == 0 {
		return stats, nil
	}

	sort.Float64s(predictions)
	stats.Mean = stat.Mean(predictions, nil)
	stats.Median = stat.Quantile(0.5, stat.Empirical, predictions, nil)
	stats.Min = predictions[0]
	stats.Max = predictions[len(predictions)-1]
	return stats, nil
}
