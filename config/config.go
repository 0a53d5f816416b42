package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
		Port string `env:"SERVER_PORT" envDefault:"5250"`
	}

	// Model artifact configuration
	Model struct {
		// Path to the versioned model artifact bundle
		ArtifactPath string `env:"MODEL_ARTIFACT_PATH" envDefault:"models_saved/gradient_boosting_model.json"`
	}

	// Estimation configuration
	Estimation struct {
		// Confidence level for prediction intervals
		ConfidenceLevel float64 `env:"ESTIMATION_CONFIDENCE_LEVEL" envDefault:"0.95"`

		// Number of trailing boosting stages used for variance estimation
		TailWindow int `env:"ESTIMATION_TAIL_WINDOW" envDefault:"250"`

		// Minimum interval margin as a fraction of the point estimate
		BaseUncertainty float64 `env:"ESTIMATION_BASE_UNCERTAINTY" envDefault:"0.05"`

		// Maximum number of properties per batch request
		MaxBatchSize int `env:"ESTIMATION_MAX_BATCH_SIZE" envDefault:"100"`
	}

	// History persistence configuration
	History struct {
		// Path to the sqlite database file
		DatabasePath string `env:"HISTORY_DB_PATH" envDefault:"database/valuations.db"`

		// Maximum number of valuations to accumulate before flushing
		FlushSize int `env:"HISTORY_FLUSH_SIZE" envDefault:"50"`

		// Maximum time to wait before flushing a non-full batch (in seconds)
		FlushInterval int `env:"HISTORY_FLUSH_INTERVAL" envDefault:"5"`

		// Number of concurrent persistence workers
		ProcessorCount int `env:"HISTORY_PROCESSOR_COUNT" envDefault:"1"`

		// Maximum number of retries for failed inserts
		MaxRetries int `env:"HISTORY_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"HISTORY_RETRY_DELAY" envDefault:"5"`
	}

	// Report generation configuration
	Reports struct {
		// Directory where generated PDF reports are written
		Dir string `env:"REPORTS_DIR" envDefault:"reports"`

		// Reports older than this many hours are swept
		MaxAgeHours int `env:"REPORTS_MAX_AGE_HOURS" envDefault:"24"`

		// Interval between sweep runs in minutes
		SweepIntervalMinutes int `env:"REPORTS_SWEEP_INTERVAL" envDefault:"60"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
