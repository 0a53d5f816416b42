package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"valorvista/server/config"
	"valorvista/server/internal/api"
	"valorvista/server/internal/database"
	"valorvista/server/internal/ensemble"
	"valorvista/server/internal/processor"
	"valorvista/server/internal/queue"
	"valorvista/server/internal/report"
	"valorvista/server/internal/valuation"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Load the model artifact once; it is shared read-only by all requests.
	// A missing artifact keeps the server up but prediction endpoints will
	// refuse with 503 until a valid bundle is in place.
	var artifact *ensemble.Artifact
	artifact, err = ensemble.LoadArtifact(cfg.Model.ArtifactPath)
	if err != nil {
		logger.WithError(err).Error("Model artifact unavailable, serving in degraded mode")
		artifact = nil
	} else {
		logger.WithFields(logrus.Fields{
			"version": artifact.Version,
			"stages":  artifact.Model.NumStages(),
		}).Info("Model artifact loaded")
	}

	estimator := valuation.NewEstimator(artifact, valuation.Options{
		ConfidenceLevel: cfg.Estimation.ConfidenceLevel,
		TailWindow:      cfg.Estimation.TailWindow,
		BaseUncertainty: cfg.Estimation.BaseUncertainty,
		MaxBatchSize:    cfg.Estimation.MaxBatchSize,
	}, logger)

	// Initialize the valuation history store
	logger.Infof("Using history database at: %s", cfg.History.DatabasePath)
	db, err := database.NewDatabase(cfg.History.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// History rows flow through the queue into the batch persister
	historyQueue := queue.NewValuationQueue(
		16,
		cfg.History.FlushSize,
		time.Duration(cfg.History.FlushInterval)*time.Second,
		logger,
	)
	persister := processor.NewBatchProcessor(db.GetDB(), historyQueue, cfg, logger)
	persister.Start()
	historyQueue.Start()
	defer historyQueue.Close()
	defer persister.Stop()

	// Report generation and the age-based sweeper
	reports, err := report.NewGenerator(cfg.Reports.Dir, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize report generator")
	}
	sweeper := report.NewSweeper(
		cfg.Reports.Dir,
		time.Duration(cfg.Reports.MaxAgeHours)*time.Hour,
		time.Duration(cfg.Reports.SweepIntervalMinutes)*time.Minute,
		logger,
	)
	sweeper.Start()
	defer sweeper.Stop()

	handler := api.NewHandler(estimator, db, historyQueue, reports, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	api.SetupRoutes(router, handler)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
