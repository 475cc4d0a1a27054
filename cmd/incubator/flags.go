package main

import (
	"flag"
	"strings"

	"github.com/ducminhle1904/incubator/cmd/common"
	"github.com/ducminhle1904/incubator/pkg/config"
	"github.com/ducminhle1904/incubator/pkg/incubator"
)

// RunFlags holds the command line overrides for a run
type RunFlags struct {
	// Engine
	GenSize      *int
	MutationRate *float64
	Crossover    *string
	Mutation     *string

	// Problem
	Target       *string
	Alphabet     *string
	SurvivalRate *float64

	// Run
	Generations *int
	Seed        *int64
	Trials      *int
	Workers     *int
	NoStop      *bool

	// Output
	Formats     *string
	OutputDir   *string
	LogDir      *string
	MetricsAddr *string
	SaveConfig  *bool
}

// NewRunFlags registers the run flags with fs. Defaults only document the
// configuration defaults; a flag is applied only when given explicitly.
func NewRunFlags(fs *flag.FlagSet) *RunFlags {
	defaults := config.DefaultRunConfig()

	return &RunFlags{
		GenSize:      fs.Int("gen-size", defaults.Engine.GenSize, "Number of specimens per generation"),
		MutationRate: fs.Float64("mutation-rate", defaults.Engine.MutationRate, "Per-specimen mutation probability (0-1)"),
		Crossover:    fs.String("crossover", string(defaults.Engine.CrossoverType), "Crossover operator (single_point, two_point)"),
		Mutation:     fs.String("mutation", string(defaults.Engine.MutationType), "Mutation operator (allele_swap, destructive, generative)"),

		Target:       fs.String("target", defaults.Problem.Target, "Target phrase to evolve"),
		Alphabet:     fs.String("alphabet", defaults.Problem.Alphabet, "Allele universe for seeding and generative mutation"),
		SurvivalRate: fs.Float64("survival", defaults.Problem.SurvivalRate, "Fraction of each generation that survives selection"),

		Generations: fs.Int("generations", defaults.Run.Generations, "Maximum generations per trial"),
		Seed:        fs.Int64("seed", defaults.Run.Seed, "Seed of the first trial, later trials count up"),
		Trials:      fs.Int("trials", defaults.Run.Trials, "Number of independent trials"),
		Workers:     fs.Int("workers", defaults.Run.Workers, "Parallel workers for trials"),
		NoStop:      fs.Bool("no-stop", false, "Keep evolving after the target is reached"),

		Formats:     fs.String("formats", strings.Join(defaults.Output.Formats, ","), "Comma-separated outputs (console, csv, xlsx, json)"),
		OutputDir:   fs.String("output", defaults.Output.Dir, "Root directory for report files"),
		LogDir:      fs.String("log-dir", defaults.Output.LogDir, "Directory for run logs"),
		MetricsAddr: fs.String("metrics-addr", "", "Serve /metrics and /health on this address (e.g. :9090)"),
		SaveConfig:  fs.Bool("save-config", false, "Write the effective configuration next to the reports"),
	}
}

// ApplyFlags copies explicitly set flags onto cfg. Problems are collected in v.
func ApplyFlags(cfg *config.RunConfig, f *RunFlags, set map[string]bool, v *common.FlagValidator) {
	// Engine
	if set["gen-size"] {
		v.ValidateInt("gen-size", *f.GenSize, incubator.MinGenSize, 1_000_000)
		cfg.Engine.GenSize = *f.GenSize
	}
	if set["mutation-rate"] {
		v.ValidateFloat("mutation-rate", *f.MutationRate, 0, 1)
		cfg.Engine.MutationRate = *f.MutationRate
	}
	if set["crossover"] {
		if ct, err := incubator.ParseCrossoverType(*f.Crossover); err != nil {
			v.AddError(err.Error())
		} else {
			cfg.Engine.CrossoverType = ct
		}
	}
	if set["mutation"] {
		if mt, err := incubator.ParseMutationType(*f.Mutation); err != nil {
			v.AddError(err.Error())
		} else {
			cfg.Engine.MutationType = mt
		}
	}

	// Problem
	if set["target"] {
		cfg.Problem.Target = *f.Target
	}
	if set["alphabet"] {
		cfg.Problem.Alphabet = *f.Alphabet
	}
	if set["survival"] {
		v.ValidateFloat("survival", *f.SurvivalRate, 0.0001, 1)
		cfg.Problem.SurvivalRate = *f.SurvivalRate
	}

	// Run
	if set["generations"] {
		v.ValidateInt("generations", *f.Generations, 1, config.MaxGenerations)
		cfg.Run.Generations = *f.Generations
	}
	if set["seed"] {
		cfg.Run.Seed = *f.Seed
	}
	if set["trials"] {
		v.ValidateInt("trials", *f.Trials, 1, config.MaxTrials)
		cfg.Run.Trials = *f.Trials
	}
	if set["workers"] {
		v.ValidateInt("workers", *f.Workers, 1, config.MaxWorkers)
		cfg.Run.Workers = *f.Workers
	}
	if set["no-stop"] {
		cfg.Run.StopWhenSolved = !*f.NoStop
	}

	// Output
	if set["formats"] {
		formats := config.ParseFormats(*f.Formats)
		for _, format := range formats {
			v.ValidateChoice("formats", format, []string{config.FormatConsole, config.FormatCSV, config.FormatExcel, config.FormatJSON})
		}
		cfg.Output.Formats = formats
	}
	if set["output"] {
		cfg.Output.Dir = *f.OutputDir
	}
	if set["log-dir"] {
		cfg.Output.LogDir = *f.LogDir
	}
	if set["metrics-addr"] {
		cfg.Monitoring.MetricsAddr = *f.MetricsAddr
	}
}
