// Package config provides configuration management for incubator runs
package config

// ConfigManager handles loading, validation and saving of run configurations
type ConfigManager interface {
	// LoadConfig loads defaults, then the JSON file, then environment overrides. It does not validate.
	LoadConfig(configFile, envFile string) (*RunConfig, error)

	// ValidateConfig validates a configuration
	ValidateConfig(cfg *RunConfig) error

	// SaveConfig saves configuration to file
	SaveConfig(cfg *RunConfig, path string) error
}

// Validator interface for configuration validation
type Validator interface {
	Validate(cfg *RunConfig) error
}

// Common configuration constants
const (
	// Default run values
	DefaultTarget       = "hello world"
	DefaultSurvivalRate = 0.2
	DefaultGenerations  = 200
	DefaultSeed         = 1
	DefaultTrials       = 1
	DefaultWorkers      = 4

	// Limits
	MaxGenerations = 1_000_000
	MaxTrials      = 10_000
	MaxWorkers     = 256

	// File and directory constants
	DefaultEnvFile      = ".env"
	ResultsDir          = "results"
	LogsDir             = "logs"
	EffectiveConfigFile = "config.json"
	EnvPrefix           = "INCUBATOR_"
)

// Output formats
const (
	FormatConsole = "console"
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatExcel   = "xlsx"
)
