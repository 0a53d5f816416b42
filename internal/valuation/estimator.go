package valuation

import (
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"valorvista/server/internal/ensemble"
	"valorvista/server/internal/features"
	"valorvista/server/internal/models"
	"valorvista/server/internal/validation"
)

// Options configures the uncertainty estimation.
type Options struct {
	// ConfidenceLevel for the reported interval. The level is nominal, not a
	// calibrated frequentist guarantee.
	ConfidenceLevel float64

	// TailWindow is the number of trailing boosting stages whose spread feeds
	// the variance estimate. Early stages are far from converged and would
	// inflate it.
	TailWindow int

	// BaseUncertainty is the minimum interval margin as a fraction of the
	// point estimate.
	BaseUncertainty float64

	// MaxBatchSize caps batch estimation requests.
	MaxBatchSize int
}

// DefaultOptions mirror the training configuration: 95% nominal level, the
// last half of the 500 fitted stages, and a 5% uncertainty floor.
var DefaultOptions = Options{
	ConfidenceLevel: 0.95,
	TailWindow:      250,
	BaseUncertainty: 0.05,
	MaxBatchSize:    100,
}

// Estimator turns enriched feature records into price estimates with
// confidence intervals. The artifact is shared read-only across requests, so
// a single Estimator is safe for concurrent use.
type Estimator struct {
	artifact *ensemble.Artifact
	opts     Options
	zScore   float64
	logger   *logrus.Logger
}

// NewEstimator builds an estimator around a loaded artifact. A nil artifact
// is allowed; every estimate then fails with ErrModelUnavailable.
func NewEstimator(artifact *ensemble.Artifact, opts Options, logger *logrus.Logger) *Estimator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	if opts.ConfidenceLevel <= 0 || opts.ConfidenceLevel >= 1 {
		opts.ConfidenceLevel = DefaultOptions.ConfidenceLevel
	}
	if opts.TailWindow <= 0 {
		opts.TailWindow = DefaultOptions.TailWindow
	}
	if opts.BaseUncertainty <= 0 {
		opts.BaseUncertainty = DefaultOptions.BaseUncertainty
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultOptions.MaxBatchSize
	}

	return &Estimator{
		artifact: artifact,
		opts:     opts,
		zScore:   distuv.UnitNormal.Quantile((1 + opts.ConfidenceLevel) / 2),
		logger:   logger,
	}
}

// ConfidenceLevel returns the configured nominal interval level.
func (e *Estimator) ConfidenceLevel() float64 {
	return e.opts.ConfidenceLevel
}

// Ready reports whether a model artifact is loaded.
func (e *Estimator) Ready() bool {
	return e.artifact != nil
}

// Artifact exposes the loaded bundle for the explanation and importance
// surfaces. Nil when the model is unavailable.
func (e *Estimator) Artifact() *ensemble.Artifact {
	return e.artifact
}

// Estimate produces a point estimate and confidence interval for an enriched
// feature record.
//
// The model predicts a log1p-transformed price, so every staged value is
// inverse-transformed before the interval is computed. The margin is the
// larger of the tail-window standard deviation scaled by the z-score and the
// base-uncertainty floor, and the interval is clamped non-negative.
func (e *Estimator) Estimate(rec *features.Record) (*models.ValuationResult, error) {
	if e.artifact == nil {
		return nil, ErrModelUnavailable
	}

	vector := e.artifact.Transform.Vector(rec)
	staged := e.artifact.Model.StagedPredict(vector)

	prices := make([]float64, len(staged))
	for i, raw := range staged {
		prices[i] = math.Expm1(raw)
	}
	point := prices[len(prices)-1]

	tail := prices
	if len(tail) > e.opts.TailWindow {
		tail = tail[len(tail)-e.opts.TailWindow:]
	}

	std := 0.0
	if len(tail) > 1 {
		std = stat.PopStdDev(tail, nil)
	}

	margin := math.Max(std*e.zScore, e.opts.BaseUncertainty*point)
	lower := math.Max(0, point-margin)
	upper := point + margin

	return &models.ValuationResult{
		Prediction:          point,
		FormattedPrediction: models.FormatUSD(point),
		Interval: models.ConfidenceInterval{
			Lower: lower,
			Upper: upper,
			Formatted: models.FormattedInterval{
				Lower: models.FormatUSD(lower),
				Upper: models.FormatUSD(upper),
			},
		},
		ConfidenceLevel: e.opts.ConfidenceLevel,
	}, nil
}

// EstimateProperty runs the full pipeline for one raw record: validation,
// defaults, feature derivation, estimation. The input is defaulted in place.
func (e *Estimator) EstimateProperty(p *models.PropertyInput) (*models.ValuationResult, error) {
	if err := validation.Validate(p); err != nil {
		return nil, err
	}
	validation.ApplyDefaults(p)

	rec := features.Derive(features.FromProperty(p))
	return e.Estimate(rec)
}
