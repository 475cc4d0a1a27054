package config

import (
	"fmt"
	"strings"
)

// RunValidator implements validation for run configurations
type RunValidator struct{}

// NewRunValidator creates a new run validator
func NewRunValidator() *RunValidator {
	return &RunValidator{}
}

// Validate performs validation on every section of the configuration
func (v *RunValidator) Validate(cfg *RunConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := cfg.Engine.Validate(); err != nil {
		return err
	}

	if err := v.validateProblem(cfg.Problem); err != nil {
		return err
	}

	if err := v.validateRun(cfg.Run); err != nil {
		return err
	}

	return v.validateOutput(cfg.Output)
}

func (v *RunValidator) validateProblem(p ProblemConfig) error {
	if p.Target == "" {
		return fmt.Errorf("target phrase must not be empty")
	}

	if !(p.SurvivalRate > 0 && p.SurvivalRate <= 1) {
		return fmt.Errorf("survival rate must be within (0, 1], got: %.4f", p.SurvivalRate)
	}

	if p.Alphabet != "" {
		for _, r := range p.Target {
			if !strings.ContainsRune(p.Alphabet, r) {
				return fmt.Errorf("target rune %q is not in the alphabet", r)
			}
		}
	}

	return nil
}

func (v *RunValidator) validateRun(r RunSettings) error {
	if r.Generations <= 0 || r.Generations > MaxGenerations {
		return fmt.Errorf("generations must be between 1 and %d, got: %d", MaxGenerations, r.Generations)
	}

	if r.Trials <= 0 || r.Trials > MaxTrials {
		return fmt.Errorf("trials must be between 1 and %d, got: %d", MaxTrials, r.Trials)
	}

	if r.Workers <= 0 || r.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got: %d", MaxWorkers, r.Workers)
	}

	return nil
}

func (v *RunValidator) validateOutput(o OutputConfig) error {
	valid := map[string]bool{FormatConsole: true, FormatCSV: true, FormatJSON: true, FormatExcel: true}
	for _, f := range o.Formats {
		if !valid[f] {
			return fmt.Errorf("unknown output format %q (valid: console, csv, json, xlsx)", f)
		}
	}

	if len(o.Formats) > 0 && o.Dir == "" {
		for _, f := range o.Formats {
			if f != FormatConsole {
				return fmt.Errorf("output dir is required for %s reports", f)
			}
		}
	}

	return nil
}
