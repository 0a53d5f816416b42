package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"valorvista/server/internal/database"
	"valorvista/server/internal/models"
	"valorvista/server/internal/queue"
	"valorvista/server/internal/report"
	"valorvista/server/internal/validation"
	"valorvista/server/internal/valuation"
)

const apiVersion = "1.0.0"

type Handler struct {
	estimator *valuation.Estimator
	db        *database.Database
	queue     *queue.ValuationQueue
	reports   *report.Generator
	logger    *logrus.Logger
}

type BatchRequest struct {
	Properties []*models.PropertyInput `json:"properties"`
}

func NewHandler(estimator *valuation.Estimator, db *database.Database, q *queue.ValuationQueue, reports *report.Generator, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		estimator: estimator,
		db:        db,
		queue:     q,
		reports:   reports,
		logger:    logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	status := "healthy"
	if !h.estimator.Ready() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"model_loaded": h.estimator.Ready(),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      apiVersion,
	})
}

// Predict estimates a single property.
func (h *Handler) Predict(c *gin.Context) {
	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.WithError(err).Error("Failed to parse prediction request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No valid input data provided"})
		return
	}

	result, err := h.estimator.EstimateProperty(&input)
	if err != nil {
		h.respondEstimationError(c, err)
		return
	}

	h.recordValuation(&input, result)

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"prediction":           result.Prediction,
		"formatted_prediction": result.FormattedPrediction,
		"confidence_interval":  result.Interval,
		"confidence_level":     result.ConfidenceLevel,
		"input_summary":        input.Summary(),
	})
}

// PredictBatch estimates up to the configured cap of properties in one call.
// Individual failures are reported per index; the batch itself only fails for
// size violations or a missing model.
func (h *Handler) PredictBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse batch request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No properties provided"})
		return
	}

	h.runBatch(c, req.Properties)
}

func (h *Handler) runBatch(c *gin.Context, inputs []*models.PropertyInput) {
	result, err := h.estimator.EstimateBatch(inputs)
	if err != nil {
		h.respondEstimationError(c, err)
		return
	}

	response := gin.H{
		"success":          true,
		"total_properties": len(result.Entries),
		"succeeded":        result.Succeeded,
		"failed":           result.Failed,
		"predictions":      result.Entries,
	}
	if result.Summary != nil {
		response["summary_statistics"] = result.Summary
	}
	c.JSON(http.StatusOK, response)
}

// Explain returns a prediction with the model's global key factors.
func (h *Handler) Explain(c *gin.Context) {
	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.WithError(err).Error("Failed to parse explain request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No valid input data provided"})
		return
	}

	explanation, err := h.estimator.Explain(&input, 10)
	if err != nil {
		h.respondEstimationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"prediction":           explanation.Prediction,
		"formatted_prediction": explanation.FormattedPrediction,
		"interval":             explanation.Interval,
		"key_factors":          explanation.KeyFactors,
		"explanation":          explanation.Explanation,
	})
}

// FeatureImportance returns the model's global importance ranking.
func (h *Handler) FeatureImportance(c *gin.Context) {
	topN, err := strconv.Atoi(c.DefaultQuery("top_n", "20"))
	if err != nil || topN <= 0 {
		topN = 20
	}

	artifact := h.estimator.Artifact()
	if artifact == nil {
		h.respondEstimationError(c, valuation.ErrModelUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"feature_importance": artifact.TopFactors(topN),
	})
}

// GenerateReport produces a PDF valuation report and returns its download URL.
func (h *Handler) GenerateReport(c *gin.Context) {
	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.WithError(err).Error("Failed to parse report request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No valid input data provided"})
		return
	}

	explanation, err := h.estimator.Explain(&input, 10)
	if err != nil {
		h.respondEstimationError(c, err)
		return
	}

	result := &models.ValuationResult{
		Prediction:          explanation.Prediction,
		FormattedPrediction: explanation.FormattedPrediction,
		Interval:            explanation.Interval,
		ConfidenceLevel:     h.estimator.ConfidenceLevel(),
	}
	reportID, filename, err := h.reports.Generate(&input, result, explanation)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate report")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate report"})
		return
	}

	h.recordValuation(&input, result)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"report_id":    reportID,
		"download_url": "/api/v1/report/download/" + filename,
	})
}

// DownloadReport serves a previously generated PDF.
func (h *Handler) DownloadReport(c *gin.Context) {
	filename := c.Param("filename")
	path := h.reports.Path(filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Report not found"})
		return
	}

	c.FileAttachment(path, filename)
}

// RecentValuations lists the newest persisted valuations.
func (h *Handler) RecentValuations(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Valuation history is not available"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	rows, err := h.db.RecentValuations(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get valuations")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get valuations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "valuations": rows})
}

// ValuationStats aggregates the persisted valuation history.
func (h *Handler) ValuationStats(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Valuation history is not available"})
		return
	}

	stats, err := h.db.ValuationStats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get valuation stats")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get valuation stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// recordValuation queues a history row. Persistence is best-effort; the
// estimate response never depends on it.
func (h *Handler) recordValuation(input *models.PropertyInput, result *models.ValuationResult) {
	if h.queue == nil {
		return
	}

	summary := input.Summary()
	row := &models.Valuation{
		LivingArea:     summary.LivingArea,
		Bedrooms:       summary.Bedrooms,
		YearBuilt:      summary.YearBuilt,
		OverallQuality: summary.OverallQuality,
		Neighborhood:   input.Neighborhood,
		Prediction:     result.Prediction,
		IntervalLower:  result.Interval.Lower,
		IntervalUpper:  result.Interval.Upper,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.queue.Push(row); err != nil {
		h.logger.WithError(err).Warn("Failed to queue valuation history row")
	}
}

// respondEstimationError maps pipeline errors onto HTTP statuses: validation
// problems are the caller's to fix, a missing model is a server-side outage.
func (h *Handler) respondEstimationError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	var sizeErr *valuation.BatchSizeError

	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation error",
			"details": fieldErrs,
		})
	case errors.As(err, &sizeErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": sizeErr.Error()})
	case errors.Is(err, valuation.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, valuation.ErrModelUnavailable):
		h.logger.WithError(err).Error("Estimation refused: model unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Model is not available"})
	default:
		h.logger.WithError(err).Error("Estimation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Estimation failed"})
	}
}
