package config

import (
	"github.com/ducminhle1904/incubator/pkg/incubator"
	"github.com/ducminhle1904/incubator/pkg/problem"
)

// RunConfig is the nested configuration for one incubator run
type RunConfig struct {
	Engine     incubator.Config `json:"engine"`
	Problem    ProblemConfig    `json:"problem"`
	Run        RunSettings      `json:"run"`
	Output     OutputConfig     `json:"output"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// ProblemConfig describes the phrase problem being evolved
type ProblemConfig struct {
	Target       string  `json:"target"`
	Alphabet     string  `json:"alphabet,omitempty"`
	SurvivalRate float64 `json:"survival_rate"`
}

// RunSettings controls how many generations and trials are run
type RunSettings struct {
	Generations    int   `json:"generations"`
	Seed           int64 `json:"seed"`
	Trials         int   `json:"trials"`
	Workers        int   `json:"workers"`
	StopWhenSolved bool  `json:"stop_when_solved"`
}

// OutputConfig controls reports and logs
type OutputConfig struct {
	Dir     string   `json:"dir"`
	Formats []string `json:"formats"`
	LogDir  string   `json:"log_dir"`
	Verbose bool     `json:"verbose"`
}

// MonitoringConfig controls the metrics and health endpoints
type MonitoringConfig struct {
	MetricsAddr string `json:"metrics_addr,omitempty"`
}

// DefaultRunConfig returns a configuration that evolves the default phrase once
func DefaultRunConfig() *RunConfig {
	engine := incubator.DefaultConfig()
	engine.MutationRate = 0.05
	return &RunConfig{
		Engine: engine,
		Problem: ProblemConfig{
			Target:       DefaultTarget,
			Alphabet:     problem.DefaultAlphabet,
			SurvivalRate: DefaultSurvivalRate,
		},
		Run: RunSettings{
			Generations:    DefaultGenerations,
			Seed:           DefaultSeed,
			Trials:         DefaultTrials,
			Workers:        DefaultWorkers,
			StopWhenSolved: true,
		},
		Output: OutputConfig{
			Dir:     ResultsDir,
			Formats: []string{FormatConsole},
			LogDir:  LogsDir,
		},
	}
}

// HasFormat reports whether the output format is enabled
func (c *RunConfig) HasFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}
