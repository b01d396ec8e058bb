// Package config loads the ambient configuration for the scheduler
// CLI: file-based defaults overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SchedulerConfig holds the tunables of the scheduling algorithm
// itself that are not part of a single request: the iteration safety
// bound and convergence tolerance for response-time analysis.
type SchedulerConfig struct {
	ConsistencyLevel      int     `yaml:"consistency_level"`
	SafetyBoundIterations int     `yaml:"safety_bound_iterations"`
	ToleranceEpsilon      float64 `yaml:"tolerance_epsilon"`
}

// LoggingConfig controls the CLI's structured logger. Level sets its
// minimum level; Format is loaded but not consulted, and the CLI
// always writes text output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the top-level configuration document.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is
// supplied and no environment variables are set.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			ConsistencyLevel:      1,
			SafetyBoundIterations: 10_000,
			ToleranceEpsilon:      1e-9,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (if non-empty and present) over DefaultConfig, then
// applies FTRMFF_-prefixed environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: reading %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.Scheduler.ConsistencyLevel = getEnvIntOrDefault("FTRMFF_CONSISTENCY_LEVEL", cfg.Scheduler.ConsistencyLevel)
	cfg.Scheduler.SafetyBoundIterations = getEnvIntOrDefault("FTRMFF_SAFETY_BOUND_ITERATIONS", cfg.Scheduler.SafetyBoundIterations)
	cfg.Scheduler.ToleranceEpsilon = getEnvFloatOrDefault("FTRMFF_TOLERANCE_EPSILON", cfg.Scheduler.ToleranceEpsilon)
	cfg.Logging.Level = getEnvOrDefault("FTRMFF_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvOrDefault("FTRMFF_LOG_FORMAT", cfg.Logging.Format)

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
