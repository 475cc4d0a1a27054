package incubator

import (
	"fmt"

	errs "github.com/ducminhle1904/incubator/internal/errors"
)

// Incubator owns a population and advances it one generation at a time.
// It is not safe for concurrent use.
type Incubator[G comparable] struct {
	config   Config
	universe []G
	rng      RandomSource
	observer Observer

	current    []Specimen[G]
	generation int
}

// NewIncubator creates an engine with an empty population.
// The random source is used as one sequential stream for every stage.
func NewIncubator[G comparable](config Config, rng RandomSource) (*Incubator[G], error) {
	if rng == nil {
		return nil, errs.NewConfigurationError("incubator", "NewIncubator", "random source is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Incubator[G]{
		config: config,
		rng:    rng,
	}, nil
}

// Seed replaces the population with copies of specimens and sets the gen size to their count
func (inc *Incubator[G]) Seed(specimens []Specimen[G]) {
	inc.current = cloneGeneration(specimens)
	inc.config.GenSize = len(specimens)
	inc.generation = 0
}

// SeedFrom seeds the population from seeder. On failure the population is unchanged.
func (inc *Incubator[G]) SeedFrom(seeder Seeder[G]) error {
	seeds, err := seeder.Seeds()
	if err != nil {
		return errs.NewSeederError("incubator", "SeedFrom", err)
	}
	inc.Seed(seeds)
	return nil
}

// Generation returns a copy of the current population
func (inc *Incubator[G]) Generation() []Specimen[G] {
	return cloneGeneration(inc.current)
}

// GenerationIndex returns how many generation-advances have been committed since seeding
func (inc *Incubator[G]) GenerationIndex() int {
	return inc.generation
}

// Config returns the current configuration
func (inc *Incubator[G]) Config() Config {
	return inc.config
}

// AlleleUniverse returns a copy of the configured allele universe
func (inc *Incubator[G]) AlleleUniverse() []G {
	out := make([]G, len(inc.universe))
	copy(out, inc.universe)
	return out
}

// SetGenSize sets the target population size for the next generation-advance
func (inc *Incubator[G]) SetGenSize(n int) error {
	if err := validateGenSize(n); err != nil {
		return err
	}
	inc.config.GenSize = n
	return nil
}

// SetMutationChance sets the per-specimen mutation probability
func (inc *Incubator[G]) SetMutationChance(rate float64) error {
	if err := validateMutationRate(rate); err != nil {
		return err
	}
	inc.config.MutationRate = rate
	return nil
}

// SetCrossoverType selects the recombination operator
func (inc *Incubator[G]) SetCrossoverType(t CrossoverType) error {
	parsed, err := ParseCrossoverType(string(t))
	if err != nil {
		return err
	}
	inc.config.CrossoverType = parsed
	return nil
}

// SetMutationType selects the mutation operator. Generative also needs an allele universe
// before the next generation-advance.
func (inc *Incubator[G]) SetMutationType(t MutationType) error {
	parsed, err := ParseMutationType(string(t))
	if err != nil {
		return err
	}
	inc.config.MutationType = parsed
	return nil
}

// SetAlleleUniverse sets the genes Generative mutation draws from
func (inc *Incubator[G]) SetAlleleUniverse(universe []G) {
	inc.universe = make([]G, len(universe))
	copy(inc.universe, universe)
}

// SetObserver registers an observer notified after every generation-advance attempt
func (inc *Incubator[G]) SetObserver(observer Observer) {
	inc.observer = observer
}

// Advance runs one generation: imprint, reconcile, crossover, mutate, commit.
// On any error the current population is left as it was. The random source is
// not rewound: draws taken by crossover and mutation before the failure stay
// consumed, so a retried advance sees a different stream.
func (inc *Incubator[G]) Advance(oracle FitnessOracle[G]) (GenerationReport, error) {
	report, err := inc.advance(oracle)
	if inc.observer != nil {
		if err != nil {
			inc.observer.ObserveFailure(err)
		} else {
			inc.observer.ObserveGeneration(report)
		}
	}
	return report, err
}

func (inc *Incubator[G]) advance(oracle FitnessOracle[G]) (GenerationReport, error) {
	cfg := inc.config

	if len(inc.current) < MinGenSize {
		return GenerationReport{}, errs.NewInsufficientPopulationError("incubator", "Advance", len(inc.current))
	}
	if err := inc.validate(); err != nil {
		return GenerationReport{}, err
	}
	if oracle == nil {
		return GenerationReport{}, errs.NewConfigurationError("incubator", "Advance", "fitness oracle is required")
	}

	if err := oracle.Imprint(cloneGeneration(inc.current)); err != nil {
		return GenerationReport{}, errs.NewOracleError("incubator", "Imprint", err)
	}
	survivors := oracle.Survivors()

	pool, err := Reconcile(inc.current, survivors)
	if err != nil {
		return GenerationReport{}, err
	}

	next, err := Crossover(pool, cfg.GenSize, cfg.CrossoverType, inc.rng)
	if err != nil {
		return GenerationReport{}, err
	}

	mutated, err := Mutate(next, cfg.MutationRate, cfg.MutationType, inc.universe, inc.rng)
	if err != nil {
		return GenerationReport{}, fmt.Errorf("generation %d: %w", inc.generation+1, err)
	}

	inc.current = next
	inc.generation++

	minLen, maxLen, meanLen := lengthStats(next)
	return GenerationReport{
		Generation:     inc.generation,
		CrossoverType:  cfg.CrossoverType,
		MutationType:   cfg.MutationType,
		Survivors:      min(len(survivors), len(pool)),
		PoolSize:       len(pool),
		Pairings:       Pairings(cfg.GenSize, cfg.CrossoverType),
		Mutations:      mutated,
		PopulationSize: len(next),
		MinLength:      minLen,
		MaxLength:      maxLen,
		MeanLength:     meanLen,
	}, nil
}

// Evolve runs up to steps generation-advances and stops at the first error
func (inc *Incubator[G]) Evolve(oracle FitnessOracle[G], steps int) ([]GenerationReport, error) {
	reports := make([]GenerationReport, 0, max(steps, 0))
	for i := 0; i < steps; i++ {
		report, err := inc.Advance(oracle)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (inc *Incubator[G]) validate() error {
	if err := inc.config.Validate(); err != nil {
		return err
	}
	if inc.config.MutationType == Generative && len(inc.universe) == 0 {
		return errs.NewConfigurationError("incubator", "Advance",
			"generative mutation requires a populated allele universe")
	}
	return nil
}
