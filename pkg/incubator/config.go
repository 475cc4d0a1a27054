package incubator

import (
	"fmt"
	"strings"

	errs "github.com/ducminhle1904/incubator/internal/errors"
)

// CrossoverType selects the recombination operator
type CrossoverType string

const (
	SinglePoint CrossoverType = "single_point"
	TwoPoint    CrossoverType = "two_point"
)

// Arity returns the number of children produced per pairing
func (c CrossoverType) Arity() int {
	switch c {
	case SinglePoint:
		return 2
	case TwoPoint:
		return 4
	default:
		return 0
	}
}

// MutationType selects the allele-level mutation operator
type MutationType string

const (
	AlleleSwap  MutationType = "allele_swap"
	Destructive MutationType = "destructive"
	Generative  MutationType = "generative"
)

// Defaults
const (
	DefaultGenSize      = 50
	DefaultMutationRate = 0.0015
	MinGenSize          = 2
)

// Config holds the engine settings read at the start of every generation-advance
type Config struct {
	GenSize       int           `json:"gen_size"`
	MutationRate  float64       `json:"mutation_rate"`
	CrossoverType CrossoverType `json:"crossover_type"`
	MutationType  MutationType  `json:"mutation_type"`
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		GenSize:       DefaultGenSize,
		MutationRate:  DefaultMutationRate,
		CrossoverType: SinglePoint,
		MutationType:  AlleleSwap,
	}
}

// Validate checks the parts of the configuration that do not depend on the allele universe
func (c Config) Validate() error {
	if err := validateGenSize(c.GenSize); err != nil {
		return err
	}
	if err := validateMutationRate(c.MutationRate); err != nil {
		return err
	}
	if _, err := ParseCrossoverType(string(c.CrossoverType)); err != nil {
		return err
	}
	if _, err := ParseMutationType(string(c.MutationType)); err != nil {
		return err
	}
	return nil
}

func validateGenSize(n int) error {
	if n < MinGenSize {
		return errs.NewConfigurationError("config", "GenSize",
			fmt.Sprintf("gen size must be at least %d, got %d", MinGenSize, n))
	}
	return nil
}

func validateMutationRate(rate float64) error {
	// NaN fails both comparisons, so test for the valid range instead
	if !(rate >= 0 && rate <= 1) {
		return errs.NewConfigurationError("config", "MutationRate",
			fmt.Sprintf("mutation rate must be within [0,1], got %v", rate))
	}
	return nil
}

// ParseCrossoverType parses names such as "single_point", "single", "two-point" or "2"
func ParseCrossoverType(s string) (CrossoverType, error) {
	switch normalizeName(s) {
	case "single_point", "single", "singlepoint", "1":
		return SinglePoint, nil
	case "two_point", "two", "twopoint", "2":
		return TwoPoint, nil
	default:
		return "", errs.NewConfigurationError("config", "CrossoverType",
			fmt.Sprintf("unknown crossover type %q", s))
	}
}

// ParseMutationType parses names such as "allele_swap", "swap", "destructive" or "generative"
func ParseMutationType(s string) (MutationType, error) {
	switch normalizeName(s) {
	case "allele_swap", "swap", "alleleswap":
		return AlleleSwap, nil
	case "destructive", "delete":
		return Destructive, nil
	case "generative", "insert":
		return Generative, nil
	default:
		return "", errs.NewConfigurationError("config", "MutationType",
			fmt.Sprintf("unknown mutation type %q", s))
	}
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "-", "_")
}
