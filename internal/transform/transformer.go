package transform

import (
	"fmt"

	"valorvista/server/internal/features"
)

// Feature kinds. Numeric features are scaled; ordinal features map a graded
// categorical scale to integers and are then scaled like numerics; category
// features are label-encoded and appended as raw codes.
const (
	KindNumeric  = "numeric"
	KindOrdinal  = "ordinal"
	KindCategory = "category"
)

// Ordinal scale names referenced by FeatureSpec.Scale.
const (
	ScaleQuality      = "quality"
	ScaleExposure     = "exposure"
	ScaleFinish       = "finish"
	ScaleGarageFinish = "garage_finish"
)

var ordinalScales = map[string]map[string]float64{
	ScaleQuality:      {"Ex": 5, "Gd": 4, "TA": 3, "Fa": 2, "Po": 1},
	ScaleExposure:     {"Gd": 4, "Av": 3, "Mn": 2, "No": 1},
	ScaleFinish:       {"GLQ": 6, "ALQ": 5, "BLQ": 4, "Rec": 3, "LwQ": 2, "Unf": 1},
	ScaleGarageFinish: {"Fin": 3, "RFn": 2, "Unf": 1},
}

// FeatureSpec describes one input of the model's feature vector and the
// fitted parameters needed to produce it.
type FeatureSpec struct {
	Name string `json:"name"`
	Kind string `json:"kind"`

	// Fitted scaling parameters (numeric and ordinal kinds)
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`

	// Training-set median, used to impute an absent numeric value
	Fill float64 `json:"fill"`

	// Ordinal scale name (ordinal kind)
	Scale string `json:"scale,omitempty"`

	// Label-encoder table fit at training time (category kind). Levels not
	// present here map to the unknown bucket, code 0.
	Levels map[string]int `json:"levels,omitempty"`
}

// Transformer converts an enriched feature record into the fixed-order
// numeric vector the ensemble expects. It is fitted at training time and
// read-only during serving.
type Transformer struct {
	Features []FeatureSpec `json:"features"`
}

// Validate checks internal consistency of a loaded transformer.
func (t *Transformer) Validate() error {
	if len(t.Features) == 0 {
		return fmt.Errorf("transform has no features")
	}
	for _, f := range t.Features {
		switch f.Kind {
		case KindNumeric:
		case KindOrdinal:
			if _, ok := ordinalScales[f.Scale]; !ok {
				return fmt.Errorf("feature %s: unknown ordinal scale %q", f.Name, f.Scale)
			}
		case KindCategory:
		default:
			return fmt.Errorf("feature %s: unknown kind %q", f.Name, f.Kind)
		}
	}
	return nil
}

// Vector produces the model input for one record. Absent numerics take the
// training median; unseen categorical levels map to the unknown bucket
// rather than failing.
func (t *Transformer) Vector(rec *features.Record) []float64 {
	out := make([]float64, len(t.Features))
	for i, f := range t.Features {
		switch f.Kind {
		case KindNumeric:
			v, ok := rec.Numeric[f.Name]
			if !ok {
				v = f.Fill
			}
			out[i] = scale(v, f.Mean, f.Std)
		case KindOrdinal:
			// Missing and "NA" both encode to 0, matching the fitted scale.
			v := ordinalScales[f.Scale][rec.Categorical[f.Name]]
			out[i] = scale(v, f.Mean, f.Std)
		case KindCategory:
			out[i] = float64(f.Levels[rec.Categorical[f.Name]])
		}
	}
	return out
}

// FeatureNames returns the vector's feature names in order.
func (t *Transformer) FeatureNames() []string {
	names := make([]string, len(t.Features))
	for i, f := range t.Features {
		names[i] = f.Name
	}
	return names
}

func scale(v, mean, std float64) float64 {
	if std == 0 {
		std = 1
	}
	return (v - mean) / std
}
