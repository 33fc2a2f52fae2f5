package config

import (
	"os"
	"runtime"
	"strconv"

	"penaltysim/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Paths      PathConfig
	Logging    LoggingConfig
}

// SimulationConfig holds Monte Carlo settings
type SimulationConfig struct {
	Iterations      int
	QuickIterations int
	Seed            uint64
	Workers         int
}

// PathConfig holds file system locations
type PathConfig struct {
	DataDir      string
	ReportDir    string
	LeaguePrefix string
	RulesFile    string // optional YAML or JSON file of extra rule sets
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Defaults
const (
	DefaultIterations      = 1000
	DefaultQuickIterations = 10
	DefaultSeed            = 42
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	seed, err := getEnvUint64OrDefault("SIM_SEED", DefaultSeed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load simulation configuration")
	}

	config := &Config{
		Simulation: SimulationConfig{
			Iterations:      getEnvIntOrDefault("SIM_ITERATIONS", DefaultIterations),
			QuickIterations: getEnvIntOrDefault("SIM_QUICK_ITERATIONS", DefaultQuickIterations),
			Seed:            seed,
			Workers:         getEnvIntOrDefault("SIM_WORKERS", runtime.NumCPU()),
		},
		Paths: PathConfig{
			DataDir:      getEnvOrDefault("DATA_DIR", "data"),
			ReportDir:    getEnvOrDefault("REPORT_DIR", "plots"),
			LeaguePrefix: getEnvOrDefault("LEAGUE_PREFIX", "SerieA"),
			RulesFile:    os.Getenv("RULES_FILE"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks the configuration for values the simulator cannot run with
func (c *Config) Validate() error {
	if c.Simulation.Iterations <= 0 {
		return errors.ConfigInvalid("SIM_ITERATIONS must be positive")
	}
	if c.Simulation.QuickIterations <= 0 {
		return errors.ConfigInvalid("SIM_QUICK_ITERATIONS must be positive")
	}
	if c.Simulation.Workers <= 0 {
		return errors.ConfigInvalid("SIM_WORKERS must be positive")
	}
	if c.Paths.DataDir == "" {
		return errors.ConfigInvalid("DATA_DIR is required")
	}
	return nil
}

// IterationCount picks the quick or full iteration count
func (c *Config) IterationCount(quick bool) int {
	if quick {
		return c.Simulation.QuickIterations
	}
	return c.Simulation.Iterations
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint64OrDefault(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an unsigned integer")
	}
	return parsed, nil
}
