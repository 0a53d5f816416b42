package models

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ConfidenceInterval bounds a price estimate. Lower is never negative.
type ConfidenceInterval struct {
	Lower     float64           `json:"lower"`
	Upper     float64           `json:"upper"`
	Formatted FormattedInterval `json:"formatted"`
}

type FormattedInterval struct {
	Lower string `json:"lower"`
	Upper string `json:"upper"`
}

// ValuationResult is a single point estimate with its confidence interval.
type ValuationResult struct {
	Prediction          float64            `json:"prediction"`
	FormattedPrediction string             `json:"formatted_prediction"`
	Interval            ConfidenceInterval `json:"confidence_interval"`
	ConfidenceLevel     float64            `json:"confidence_level"`
}

// BatchEntry is one record's outcome in a batch response. Exactly one of
// Result and Error is set; Index refers to the record's position in the
// submitted batch.
type BatchEntry struct {
	Index  int              `json:"index"`
	Result *ValuationResult `json:"result,omitempty"`
	Input  *InputSummary    `json:"input,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// BatchSummary holds summary statistics over the successful predictions.
type BatchSummary struct {
	Count     int                   `json:"count"`
	Mean      float64               `json:"mean"`
	Median    float64               `json:"median"`
	Min       float64               `json:"min"`
	Max       float64               `json:"max"`
	Std       float64               `json:"std"`
	Formatted FormattedBatchSummary `json:"formatted"`
}

type FormattedBatchSummary struct {
	Mean   string `json:"mean"`
	Median string `json:"median"`
	Range  string `json:"range"`
}

// BatchResult is the full outcome of a batch estimation.
type BatchResult struct {
	Entries   []BatchEntry
	Succeeded int
	Failed    int
	Summary   *BatchSummary
}

// KeyFactor is one entry of the model's global feature-importance ranking.
type KeyFactor struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Valuation is a persisted history row for a completed estimate.
type Valuation struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	LivingArea     int       `json:"living_area"`
	Bedrooms       int       `json:"bedrooms"`
	YearBuilt      int       `json:"year_built"`
	OverallQuality int       `json:"overall_quality"`
	Neighborhood   string    `json:"neighborhood"`
	Prediction     float64   `json:"prediction"`
	IntervalLower  float64   `json:"interval_lower"`
	IntervalUpper  float64   `json:"interval_upper"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValuationStats aggregates the persisted valuation history.
type ValuationStats struct {
	Count  int64   `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders a price as a grouped dollar amount, e.g. "$245,000".
// Values are rounded to whole dollars to match the display format used
// throughout the API and reports.
func FormatUSD(v float64) string {
	return usdPrinter.Sprintf("$%d", int64(v+0.5))
}
