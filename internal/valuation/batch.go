package valuation

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"valorvista/server/internal/models"
)

// EstimateBatch applies the full pipeline independently to each record. The
// size cap is enforced before any estimation; a record that fails validation
// is reported as an error entry at its index while the rest of the batch
// proceeds. Entries come back in input order.
func (e *Estimator) EstimateBatch(inputs []*models.PropertyInput) (*models.BatchResult, error) {
	if e.artifact == nil {
		return nil, ErrModelUnavailable
	}
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(inputs) > e.opts.MaxBatchSize {
		return nil, &BatchSizeError{Size: len(inputs), Max: e.opts.MaxBatchSize}
	}

	result := &models.BatchResult{
		Entries: make([]models.BatchEntry, len(inputs)),
	}
	var predictions []float64

	for i, p := range inputs {
		entry := models.BatchEntry{Index: i}

		valuation, err := e.EstimateProperty(p)
		if err != nil {
			entry.Error = err.Error()
			result.Failed++
			e.logger.WithError(err).WithField("index", i).Warn("Batch record failed")
		} else {
			summary := p.Summary()
			entry.Result = valuation
			entry.Input = &summary
			result.Succeeded++
			predictions = append(predictions, valuation.Prediction)
		}
		result.Entries[i] = entry
	}

	if len(predictions) > 0 {
		result.Summary = summarize(predictions)
	}
	return result, nil
}

// summarize computes the batch summary statistics over successful predictions.
func summarize(predictions []float64) *models.BatchSummary {
	sorted := make([]float64, len(predictions))
	copy(sorted, predictions)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	std := 0.0
	if len(sorted) > 1 {
		std = stat.PopStdDev(sorted, nil)
	}
	min := sorted[0]
	max := sorted[len(sorted)-1]

	return &models.BatchSummary{
		Count:  len(sorted),
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
		Std:    std,
		Formatted: models.FormattedBatchSummary{
			Mean:   models.FormatUSD(mean),
			Median: models.FormatUSD(median),
			Range:  fmt.Sprintf("%s - %s", models.FormatUSD(min), models.FormatUSD(max)),
		},
	}
}
