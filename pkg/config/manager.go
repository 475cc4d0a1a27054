package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/incubator/pkg/incubator"
)

// Manager implements ConfigManager for run configurations
type Manager struct {
	validator Validator
	lookupEnv func(string) (string, bool)
}

// NewManager creates a new configuration manager reading overrides from the process environment
func NewManager() *Manager {
	return &Manager{
		validator: NewRunValidator(),
		lookupEnv: os.LookupEnv,
	}
}

// LoadConfig loads configuration in layers: defaults, JSON file, env file, process environment.
// Process environment wins over the env file. The result is not validated, callers
// apply their own overrides first and then call ValidateConfig.
func (m *Manager) LoadConfig(configFile, envFile string) (*RunConfig, error) {
	cfg := DefaultRunConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	env, err := m.environment(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if err := applyEnvOverrides(cfg, env); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a JSON file over the current values
func (m *Manager) loadFromFile(configFile string, cfg *RunConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", configFile, err)
	}
	return nil
}

// environment collects INCUBATOR_* variables from envFile and the process environment
func (m *Manager) environment(envFile string) (map[string]string, error) {
	vars := make(map[string]string)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			fileVars, err := godotenv.Read(envFile)
			if err != nil {
				return nil, fmt.Errorf("could not parse env file %s: %w", envFile, err)
			}
			for key, value := range fileVars {
				if strings.HasPrefix(key, EnvPrefix) {
					vars[key] = value
				}
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	for _, key := range envKeys {
		if value, ok := m.lookupEnv(key); ok {
			vars[key] = value
		}
	}
	return vars, nil
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *RunConfig) error {
	return m.validator.Validate(cfg)
}

// SaveConfig saves configuration to file
func (m *Manager) SaveConfig(cfg *RunConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Environment variable names
const (
	EnvGenSize        = EnvPrefix + "GEN_SIZE"
	EnvMutationRate   = EnvPrefix + "MUTATION_RATE"
	EnvCrossoverType  = EnvPrefix + "CROSSOVER"
	EnvMutationType   = EnvPrefix + "MUTATION"
	EnvTarget         = EnvPrefix + "TARGET"
	EnvAlphabet       = EnvPrefix + "ALPHABET"
	EnvSurvivalRate   = EnvPrefix + "SURVIVAL_RATE"
	EnvGenerations    = EnvPrefix + "GENERATIONS"
	EnvSeed           = EnvPrefix + "SEED"
	EnvTrials         = EnvPrefix + "TRIALS"
	EnvWorkers        = EnvPrefix + "WORKERS"
	EnvOutputDir      = EnvPrefix + "OUTPUT_DIR"
	EnvFormats        = EnvPrefix + "FORMATS"
	EnvLogDir         = EnvPrefix + "LOG_DIR"
	EnvMetricsAddr    = EnvPrefix + "METRICS_ADDR"
	EnvStopWhenSolved = EnvPrefix + "STOP_WHEN_SOLVED"
)

var envKeys = []string{
	EnvGenSize, EnvMutationRate, EnvCrossoverType, EnvMutationType,
	EnvTarget, EnvAlphabet, EnvSurvivalRate,
	EnvGenerations, EnvSeed, EnvTrials, EnvWorkers, EnvStopWhenSolved,
	EnvOutputDir, EnvFormats, EnvLogDir, EnvMetricsAddr,
}

func applyEnvOverrides(cfg *RunConfig, env map[string]string) error {
	for key, value := range env {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		var err error
		switch key {
		case EnvGenSize:
			cfg.Engine.GenSize, err = strconv.Atoi(value)
		case EnvMutationRate:
			cfg.Engine.MutationRate, err = strconv.ParseFloat(value, 64)
		case EnvCrossoverType:
			cfg.Engine.CrossoverType, err = incubator.ParseCrossoverType(value)
		case EnvMutationType:
			cfg.Engine.MutationType, err = incubator.ParseMutationType(value)
		case EnvTarget:
			cfg.Problem.Target = value
		case EnvAlphabet:
			cfg.Problem.Alphabet = value
		case EnvSurvivalRate:
			cfg.Problem.SurvivalRate, err = strconv.ParseFloat(value, 64)
		case EnvGenerations:
			cfg.Run.Generations, err = strconv.Atoi(value)
		case EnvSeed:
			cfg.Run.Seed, err = strconv.ParseInt(value, 10, 64)
		case EnvTrials:
			cfg.Run.Trials, err = strconv.Atoi(value)
		case EnvWorkers:
			cfg.Run.Workers, err = strconv.Atoi(value)
		case EnvStopWhenSolved:
			cfg.Run.StopWhenSolved, err = strconv.ParseBool(value)
		case EnvOutputDir:
			cfg.Output.Dir = value
		case EnvFormats:
			cfg.Output.Formats = ParseFormats(value)
		case EnvLogDir:
			cfg.Output.LogDir = value
		case EnvMetricsAddr:
			cfg.Monitoring.MetricsAddr = value
		}
		if err != nil {
			return fmt.Errorf("%s=%q: %w", key, value, err)
		}
	}
	return nil
}

// ParseFormats splits a comma separated list of output formats
func ParseFormats(value string) []string {
	formats := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "excel" {
			part = FormatExcel
		}
		if part != "" {
			formats = append(formats, part)
		}
	}
	return formats
}
