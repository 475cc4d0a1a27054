// Package incubator provides a generation-advance engine for evolving populations of gene sequences.
package incubator

import (
	"math/rand"
	"slices"
)

// Specimen is one candidate solution: an ordered sequence of genes
type Specimen[G comparable] []G

// Clone returns a copy that shares no storage with s
func (s Specimen[G]) Clone() Specimen[G] {
	if s == nil {
		return nil
	}
	out := make(Specimen[G], len(s))
	copy(out, s)
	return out
}

// Equal reports whether both specimens hold the same genes in the same order
func (s Specimen[G]) Equal(other Specimen[G]) bool {
	return slices.Equal(s, other)
}

// FitnessOracle judges which specimens survive into the breeding pool.
// Imprint is always called before Survivors, once per generation-advance.
type FitnessOracle[G comparable] interface {
	// Imprint hands the oracle the current generation
	Imprint(generation []Specimen[G]) error
	// Survivors returns the subset judged fit enough to breed
	Survivors() []Specimen[G]
}

// OracleFunc adapts a selection function to the FitnessOracle interface
type OracleFunc[G comparable] func(generation []Specimen[G]) ([]Specimen[G], error)

type funcOracle[G comparable] struct {
	fn        OracleFunc[G]
	survivors []Specimen[G]
}

// Oracle wraps fn so it can be passed to Advance
func (fn OracleFunc[G]) Oracle() FitnessOracle[G] {
	return &funcOracle[G]{fn: fn}
}

func (o *funcOracle[G]) Imprint(generation []Specimen[G]) error {
	survivors, err := o.fn(generation)
	if err != nil {
		return err
	}
	o.survivors = survivors
	return nil
}

func (o *funcOracle[G]) Survivors() []Specimen[G] {
	return o.survivors
}

// Seeder supplies an initial population
type Seeder[G comparable] interface {
	Seeds() ([]Specimen[G], error)
}

// SeederFunc adapts a function to the Seeder interface
type SeederFunc[G comparable] func() ([]Specimen[G], error)

// Seeds implements Seeder
func (fn SeederFunc[G]) Seeds() ([]Specimen[G], error) {
	return fn()
}

// RandomSource is the single sequential random stream used by every stage.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// NewRandomSource returns a deterministic stream for seed
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Observer receives a report after every generation-advance attempt
type Observer interface {
	ObserveGeneration(report GenerationReport)
	ObserveFailure(err error)
}

// GenerationReport summarises one committed generation-advance
type GenerationReport struct {
	Generation     int           `json:"generation"`
	CrossoverType  CrossoverType `json:"crossover_type"`
	MutationType   MutationType  `json:"mutation_type"`
	Survivors      int           `json:"survivors"`
	PoolSize       int           `json:"pool_size"`
	Pairings       int           `json:"pairings"`
	Mutations      int           `json:"mutations"`
	PopulationSize int           `json:"population_size"`
	MinLength      int           `json:"min_length"`
	MaxLength      int           `json:"max_length"`
	MeanLength     float64       `json:"mean_length"`
}

func lengthStats[G comparable](generation []Specimen[G]) (minLen, maxLen int, mean float64) {
	if len(generation) == 0 {
		return 0, 0, 0
	}
	minLen = len(generation[0])
	total := 0
	for _, s := range generation {
		l := len(s)
		minLen = min(minLen, l)
		maxLen = max(maxLen, l)
		total += l
	}
	return minLen, maxLen, float64(total) / float64(len(generation))
}

func cloneGeneration[G comparable](generation []Specimen[G]) []Specimen[G] {
	if generation == nil {
		return nil
	}
	out := make([]Specimen[G], len(generation))
	for i, s := range generation {
		out[i] = s.Clone()
	}
	return out
}
