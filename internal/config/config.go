package config

import (
	"fmt"
	"os"
	"strconv"

	"goanova/domain/anova"
	"goanova/domain/core"
)

// Config represents the complete application configuration
type Config struct {
	Analysis anova.Config
	Data     DataConfig
}

// DataConfig holds data source settings for the CLI
type DataConfig struct {
	FilePath string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. Entry points are expected to load .env first.
func Load() (*Config, error) {
	cfg := &Config{
		Analysis: anova.DefaultConfig(),
		Data: DataConfig{
			FilePath: os.Getenv("DATA_FILE"),
		},
	}

	var err error
	cfg.Analysis.Alpha, err = getEnvFloat("ANOVA_ALPHA", cfg.Analysis.Alpha)
	if err != nil {
		return nil, err
	}
	cfg.Analysis.ConfidenceLevel, err = getEnvFloat("ANOVA_CONFIDENCE_LEVEL", cfg.Analysis.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	if err := cfg.Analysis.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvFloat reads a float environment variable with a default
func getEnvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", core.ErrInvalidConfig, key, raw)
	}
	return v, nil
}
