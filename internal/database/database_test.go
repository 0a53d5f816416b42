package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valorvista/server/internal/models"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "valuations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *Database, predictions ...float64) {
	t.Helper()
	base := time.Now().UTC().Add(-time.Duration(len(predictions)) * time.Minute)
	batch := make([]*models.Valuation, len(predictions))
	for i, p := range predictions {
		batch[i] = &models.Valuation{
			LivingArea:     1500,
			Bedrooms:       3,
			YearBuilt:      2005,
			OverallQuality: 7,
			Neighborhood:   "NAmes",
			Prediction:     p,
			IntervalLower:  p * 0.95,
			IntervalUpper:  p * 1.05,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, InsertValuations(db.GetDB(), batch))
}

func TestNewDatabaseCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "valuations.db")
	db, err := NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestInsertAndRecentValuations(t *testing.T) {
	db := testDatabase(t)
	seed(t, db, 200000, 250000, 300000)

	rows, err := db.RecentValuations(10)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest first.
	assert.Equal(t, 300000.0, rows[0].Prediction)
	assert.Equal(t, 200000.0, rows[2].Prediction)
	assert.Equal(t, "NAmes", rows[0].Neighborhood)
	assert.NotZero(t, rows[0].ID)
}

func TestRecentValuationsLimit(t *testing.T) {
	db := testDatabase(t)
	seed(t, db, 200000, 250000, 300000, 350000)

	rows, err := db.RecentValuations(2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 350000.0, rows[0].Prediction)

	// A non-positive limit falls back to the default.
	rows, err = db.RecentValuations(0)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestInsertValuationsEmptyBatch(t *testing.T) {
	db := testDatabase(t)
	require.NoError(t, InsertValuations(db.GetDB(), nil))
}

func TestValuationStats(t *testing.T) {
	db := testDatabase(t)
	seed(t, db, 100000, 200000, 300000)

	stats, err := db.ValuationStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Count)
	assert.InDelta(t, 200000, stats.Mean, 1e-6)
	assert.InDelta(t, 200000, stats.Median, 1e-6)
	assert.Equal(t, 100000.0, stats.Min)
	assert.Equal(t, 300000.0, stats.Max)
}

func TestValuationStatsEmpty(t *testing.T) {
	db := testDatabase(t)

	stats, err := db.ValuationStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count)
	assert.Zero(t, stats.Mean)
}
