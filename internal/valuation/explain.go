package valuation

import (
	"fmt"
	"strings"

	"valorvista/server/internal/features"
	"valorvista/server/internal/models"
	"valorvista/server/internal/validation"
)

// Explanation pairs a prediction with the model's global key factors. The
// ranking is the training-time feature-importance table, not a per-instance
// sensitivity analysis.
type Explanation struct {
	Prediction          float64                   `json:"prediction"`
	FormattedPrediction string                    `json:"formatted_prediction"`
	Interval            models.ConfidenceInterval `json:"interval"`
	KeyFactors          []models.KeyFactor        `json:"key_factors"`
	Explanation         string                    `json:"explanation"`
}

// Explain estimates a property and attaches the top global factors that are
// present in the submitted record, descending by importance.
func (e *Estimator) Explain(p *models.PropertyInput, topFactors int) (*Explanation, error) {
	if e.artifact == nil {
		return nil, ErrModelUnavailable
	}
	if err := validation.Validate(p); err != nil {
		return nil, err
	}
	validation.ApplyDefaults(p)

	rec := features.Derive(features.FromProperty(p))
	valuation, err := e.Estimate(rec)
	if err != nil {
		return nil, err
	}

	if topFactors <= 0 {
		topFactors = 10
	}
	var factors []models.KeyFactor
	for _, kf := range e.artifact.KeyFactors() {
		if len(factors) == topFactors {
			break
		}
		_, isNumeric := rec.Numeric[kf.Feature]
		_, isCategorical := rec.Categorical[kf.Feature]
		if isNumeric || isCategorical {
			factors = append(factors, kf)
		}
	}

	return &Explanation{
		Prediction:          valuation.Prediction,
		FormattedPrediction: valuation.FormattedPrediction,
		Interval:            valuation.Interval,
		KeyFactors:          factors,
		Explanation:         describeFactors(rec, factors),
	}, nil
}

// describeFactors renders a short human-readable account of the leading
// factors, including the record's values.
func describeFactors(rec *features.Record, factors []models.KeyFactor) string {
	lines := []string{"Key factors influencing this valuation:"}

	limit := len(factors)
	if limit > 5 {
		limit = 5
	}
	for _, kf := range factors[:limit] {
		pct := kf.Importance * 100
		if v, ok := rec.Numeric[kf.Feature]; ok {
			switch kf.Feature {
			case "GrLivArea", "TotalBsmtSF", "1stFlrSF", "2ndFlrSF", "TotalSF", "GarageArea", "LotArea":
				lines = append(lines, fmt.Sprintf("- %s: %.0f sq ft (%.1f%% importance)", kf.Feature, v, pct))
			case "OverallQual", "OverallCond":
				lines = append(lines, fmt.Sprintf("- %s: %.0f/10 (%.1f%% importance)", kf.Feature, v, pct))
			default:
				lines = append(lines, fmt.Sprintf("- %s: %g (%.1f%% importance)", kf.Feature, v, pct))
			}
		} else if v, ok := rec.Categorical[kf.Feature]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %s (%.1f%% importance)", kf.Feature, v, pct))
		}
	}

	return strings.Join(lines, "\n")
}
