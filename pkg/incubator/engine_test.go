package incubator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIncubator[G comparable](t *testing.T, cfg Config, rng RandomSource) *Incubator[G] {
	t.Helper()
	inc, err := NewIncubator[G](cfg, rng)
	require.NoError(t, err)
	return inc
}

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.MutationRate = 0
	return cfg
}

// Four survivors, single-point cuts at index 2, no mutation
func TestAdvance_SinglePointScenario(t *testing.T) {
	rng := &scriptedSource{floats: []float64{0.5, 0.5}, fallbackFloat: 0.5}
	inc := newTestIncubator[string](t, quietConfig(), rng)
	inc.Seed([]Specimen[string]{letters("ABCD"), letters("EFGH"), letters("IJKL"), letters("MNOP")})

	oracle := &recordingOracle[string]{keep: 4}
	report, err := inc.Advance(oracle)
	require.NoError(t, err)

	assert.Equal(t, []Specimen[string]{letters("ABGH"), letters("EFCD"), letters("IJOP"), letters("MNKL")}, inc.Generation())
	assert.Equal(t, 1, inc.GenerationIndex())

	require.Len(t, oracle.imprinted, 1)
	assert.Equal(t, []Specimen[string]{letters("ABCD"), letters("EFGH"), letters("IJKL"), letters("MNOP")}, oracle.imprinted[0])

	assert.Equal(t, GenerationReport{
		Generation:     1,
		CrossoverType:  SinglePoint,
		MutationType:   AlleleSwap,
		Survivors:      4,
		PoolSize:       4,
		Pairings:       2,
		Mutations:      0,
		PopulationSize: 4,
		MinLength:      4,
		MaxLength:      4,
		MeanLength:     4,
	}, report)
}

// One survivor: pool is [CCCC, AAAA, BBBB, DDDD] before crossover
func TestAdvance_ReconcilesSurvivorsFirst(t *testing.T) {
	rng := &scriptedSource{floats: []float64{0.0, 0.0}, fallbackFloat: 0.5}
	inc := newTestIncubator[string](t, quietConfig(), rng)
	inc.Seed([]Specimen[string]{letters("AAAA"), letters("BBBB"), letters("CCCC"), letters("DDDD")})

	oracle := OracleFunc[string](func(generation []Specimen[string]) ([]Specimen[string], error) {
		return []Specimen[string]{generation[2]}, nil
	}).Oracle()

	report, err := inc.Advance(oracle)
	require.NoError(t, err)

	// cut 0 swaps whole parents within each pairing
	assert.Equal(t, []Specimen[string]{letters("AAAA"), letters("CCCC"), letters("DDDD"), letters("BBBB")}, inc.Generation())
	assert.Equal(t, 1, report.Survivors)
	assert.Equal(t, 4, report.PoolSize)
}

func TestAdvance_PopulationMatchesGenSize(t *testing.T) {
	oracle := &recordingOracle[int]{keep: 3}

	testCases := []struct {
		name     string
		seedSize int
		genSize  int
		cross    CrossoverType
		mutation MutationType
	}{
		{"single point same size", 6, 6, SinglePoint, AlleleSwap},
		{"single point grows", 4, 9, SinglePoint, AlleleSwap},
		{"single point shrinks", 9, 3, SinglePoint, Destructive},
		{"two point odd", 5, 7, TwoPoint, AlleleSwap},
		{"two point minimum", 2, 2, TwoPoint, Generative},
		{"two point large", 3, 21, TwoPoint, Generative},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rng := NewRandomSource(42)
			cfg := Config{GenSize: DefaultGenSize, MutationRate: 0.3, CrossoverType: tc.cross, MutationType: tc.mutation}
			inc := newTestIncubator[int](t, cfg, rng)
			inc.SetAlleleUniverse([]int{0, 1, 2, 3})
			inc.Seed(randomPopulation(rng, tc.seedSize, 12))
			require.NoError(t, inc.SetGenSize(tc.genSize))

			for step := 1; step <= 5; step++ {
				report, err := inc.Advance(oracle)
				require.NoError(t, err)
				assert.Len(t, inc.Generation(), tc.genSize)
				assert.Equal(t, tc.genSize, report.PopulationSize)
				assert.Equal(t, step, report.Generation)
			}
		})
	}
}

func TestAdvance_DeterministicForSameSeed(t *testing.T) {
	run := func() []Specimen[int] {
		rng := NewRandomSource(2024)
		cfg := Config{GenSize: 10, MutationRate: 0.5, CrossoverType: TwoPoint, MutationType: AlleleSwap}
		inc := newTestIncubator[int](t, cfg, rng)
		inc.Seed(randomPopulation(rng, 10, 8))
		_, err := inc.Evolve(&recordingOracle[int]{keep: 5}, 10)
		require.NoError(t, err)
		return inc.Generation()
	}

	assert.Equal(t, run(), run())
}

func TestAdvance_InsufficientPopulation(t *testing.T) {
	observer := &countingObserver{}
	inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))
	inc.SetObserver(observer)

	_, err := inc.Advance(&recordingOracle[int]{keep: 1})
	assert.ErrorIs(t, err, ErrInsufficientPopulation)

	inc.Seed([]Specimen[int]{intsSpecimen(1, 2)})
	_, err = inc.Advance(&recordingOracle[int]{keep: 1})
	assert.ErrorIs(t, err, ErrInsufficientPopulation)

	assert.Len(t, observer.failures, 2)
	assert.Empty(t, observer.reports)
	assert.Equal(t, []Specimen[int]{intsSpecimen(1, 2)}, inc.Generation())
}

func TestAdvance_FailureLeavesGenerationIntact(t *testing.T) {
	seed := []Specimen[int]{intsSpecimen(1, 2, 3), intsSpecimen(4, 5, 6), intsSpecimen(7, 8, 9)}

	t.Run("oracle error", func(t *testing.T) {
		inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))
		inc.Seed(seed)

		_, err := inc.Advance(&recordingOracle[int]{err: errOracleDown})
		require.Error(t, err)
		assert.ErrorIs(t, err, errOracleDown)
		assert.Equal(t, seed, inc.Generation())
		assert.Zero(t, inc.GenerationIndex())
	})

	t.Run("generative without universe", func(t *testing.T) {
		inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))
		inc.Seed(seed)
		require.NoError(t, inc.SetMutationType(Generative))

		oracle := &recordingOracle[int]{keep: 2}
		_, err := inc.Advance(oracle)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.Empty(t, oracle.imprinted)
		assert.Equal(t, seed, inc.Generation())
	})

	t.Run("destructive on empty specimens", func(t *testing.T) {
		inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))
		inc.Seed([]Specimen[int]{{}, {}})
		require.NoError(t, inc.SetMutationType(Destructive))
		require.NoError(t, inc.SetMutationChance(1))

		_, err := inc.Advance(&recordingOracle[int]{keep: 2})
		assert.ErrorIs(t, err, ErrEmptySpecimen)
		assert.Equal(t, []Specimen[int]{{}, {}}, inc.Generation())
		assert.Zero(t, inc.GenerationIndex())
	})

	t.Run("nil oracle", func(t *testing.T) {
		inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))
		inc.Seed(seed)

		_, err := inc.Advance(nil)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.Equal(t, seed, inc.Generation())
	})
}

func TestAdvance_FailedAdvanceConsumesRandomStream(t *testing.T) {
	rng := &countingSource{RandomSource: NewRandomSource(7)}
	inc := newTestIncubator[int](t, quietConfig(), rng)
	inc.Seed([]Specimen[int]{{}, {}})
	require.NoError(t, inc.SetMutationType(Destructive))
	require.NoError(t, inc.SetMutationChance(1))

	_, err := inc.Advance(&recordingOracle[int]{keep: 2})
	require.ErrorIs(t, err, ErrEmptySpecimen)
	assert.Equal(t, []Specimen[int]{{}, {}}, inc.Generation())
	assert.Zero(t, inc.GenerationIndex())

	// the generation is intact but the stream is not
	assert.Positive(t, rng.draws)
	assert.NotEqual(t, NewRandomSource(7).Float64(), rng.Float64())
}

func TestAdvance_OracleCannotMutatePopulation(t *testing.T) {
	inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(9))
	inc.Seed([]Specimen[int]{intsSpecimen(1, 1), intsSpecimen(2, 2)})

	oracle := OracleFunc[int](func(generation []Specimen[int]) ([]Specimen[int], error) {
		generation[0][0] = 99
		return nil, errOracleDown
	}).Oracle()

	_, err := inc.Advance(oracle)
	require.Error(t, err)
	assert.Equal(t, []Specimen[int]{intsSpecimen(1, 1), intsSpecimen(2, 2)}, inc.Generation())
}

func TestGeneration_ReturnsCopy(t *testing.T) {
	inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))
	seed := []Specimen[int]{intsSpecimen(1, 2), intsSpecimen(3, 4)}
	inc.Seed(seed)

	seed[0][0] = 100
	snapshot := inc.Generation()
	snapshot[1][1] = 100

	assert.Equal(t, []Specimen[int]{intsSpecimen(1, 2), intsSpecimen(3, 4)}, inc.Generation())
}

func TestSeed_SetsGenSizeAndResetsIndex(t *testing.T) {
	inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))
	inc.Seed(randomPopulation(NewRandomSource(1), 7, 3))
	assert.Equal(t, 7, inc.Config().GenSize)

	_, err := inc.Advance(&recordingOracle[int]{keep: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, inc.GenerationIndex())

	inc.Seed(randomPopulation(NewRandomSource(2), 4, 3))
	assert.Equal(t, 4, inc.Config().GenSize)
	assert.Zero(t, inc.GenerationIndex())
}

func TestSeedFrom(t *testing.T) {
	inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(1))

	err := inc.SeedFrom(SeederFunc[int](func() ([]Specimen[int], error) {
		return []Specimen[int]{intsSpecimen(1), intsSpecimen(2), intsSpecimen(3)}, nil
	}))
	require.NoError(t, err)
	assert.Len(t, inc.Generation(), 3)

	seederErr := errors.New("no seeds")
	err = inc.SeedFrom(SeederFunc[int](func() ([]Specimen[int], error) {
		return nil, seederErr
	}))
	assert.ErrorIs(t, err, seederErr)
	assert.Len(t, inc.Generation(), 3)
}

func TestNewIncubator_Validation(t *testing.T) {
	_, err := NewIncubator[int](DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	cfg := DefaultConfig()
	cfg.GenSize = 1
	_, err = NewIncubator[int](cfg, NewRandomSource(1))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	cfg = DefaultConfig()
	cfg.CrossoverType = "uniform"
	_, err = NewIncubator[int](cfg, NewRandomSource(1))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSetters(t *testing.T) {
	inc := newTestIncubator[int](t, DefaultConfig(), NewRandomSource(1))

	assert.ErrorIs(t, inc.SetGenSize(1), ErrInvalidConfiguration)
	assert.ErrorIs(t, inc.SetMutationChance(-0.1), ErrInvalidConfiguration)
	assert.ErrorIs(t, inc.SetMutationChance(1.01), ErrInvalidConfiguration)
	assert.ErrorIs(t, inc.SetCrossoverType("uniform"), ErrInvalidConfiguration)
	assert.ErrorIs(t, inc.SetMutationType("scramble"), ErrInvalidConfiguration)
	assert.Equal(t, DefaultConfig(), inc.Config())

	require.NoError(t, inc.SetGenSize(12))
	require.NoError(t, inc.SetMutationChance(0.25))
	require.NoError(t, inc.SetCrossoverType("two-point"))
	require.NoError(t, inc.SetMutationType("generative"))
	assert.Equal(t, Config{GenSize: 12, MutationRate: 0.25, CrossoverType: TwoPoint, MutationType: Generative}, inc.Config())

	universe := []int{1, 2}
	inc.SetAlleleUniverse(universe)
	universe[0] = 50
	assert.Equal(t, []int{1, 2}, inc.AlleleUniverse())
}

func TestEvolve_StopsAtFirstError(t *testing.T) {
	inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(3))
	inc.Seed(randomPopulation(NewRandomSource(3), 6, 4))

	calls := 0
	oracle := OracleFunc[int](func(generation []Specimen[int]) ([]Specimen[int], error) {
		calls++
		if calls == 3 {
			return nil, errOracleDown
		}
		return generation[:2], nil
	}).Oracle()

	reports, err := inc.Evolve(oracle, 10)
	assert.ErrorIs(t, err, errOracleDown)
	assert.Len(t, reports, 2)
	assert.Equal(t, 2, inc.GenerationIndex())
}

func TestObserver_NotifiedPerAdvance(t *testing.T) {
	observer := &countingObserver{}
	inc := newTestIncubator[int](t, quietConfig(), NewRandomSource(4))
	inc.SetObserver(observer)
	inc.Seed(randomPopulation(NewRandomSource(4), 4, 4))

	_, err := inc.Evolve(&recordingOracle[int]{keep: 2}, 3)
	require.NoError(t, err)

	require.Len(t, observer.reports, 3)
	for i, report := range observer.reports {
		assert.Equal(t, i+1, report.Generation)
	}
	assert.Empty(t, observer.failures)
}

func BenchmarkAdvance(b *testing.B) {
	rng := NewRandomSource(1)
	cfg := Config{GenSize: 100, MutationRate: 0.05, CrossoverType: SinglePoint, MutationType: AlleleSwap}
	inc, err := NewIncubator[int](cfg, rng)
	if err != nil {
		b.Fatal(err)
	}
	inc.Seed(randomPopulation(rng, 100, 32))
	oracle := &recordingOracle[int]{keep: 30}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		oracle.imprinted = oracle.imprinted[:0]
		if _, err := inc.Advance(oracle); err != nil {
			b.Fatal(err)
		}
	}
}
