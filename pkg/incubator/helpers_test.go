package incubator

import (
	"errors"
	"fmt"
	"slices"
)

// scriptedSource replays fixed draws so tests can pin cut points and mutation targets
type scriptedSource struct {
	ints          []int
	floats        []float64
	fallbackFloat float64
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		panic(fmt.Sprintf("scriptedSource: no int left for Intn(%d)", n))
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scriptedSource: %d out of range for Intn(%d)", v, n))
	}
	return v
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return s.fallbackFloat
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// countingSource counts the draws taken from an underlying source
type countingSource struct {
	RandomSource
	draws int
}

func (c *countingSource) Intn(n int) int {
	c.draws++
	return c.RandomSource.Intn(n)
}

func (c *countingSource) Float64() float64 {
	c.draws++
	return c.RandomSource.Float64()
}

// recordingOracle keeps the first keep specimens of whatever it is shown
type recordingOracle[G comparable] struct {
	keep      int
	imprinted [][]Specimen[G]
	survivors []Specimen[G]
	err       error
}

func (o *recordingOracle[G]) Imprint(generation []Specimen[G]) error {
	if o.err != nil {
		return o.err
	}
	o.imprinted = append(o.imprinted, generation)
	n := min(o.keep, len(generation))
	o.survivors = generation[:n]
	return nil
}

func (o *recordingOracle[G]) Survivors() []Specimen[G] {
	return o.survivors
}

type countingObserver struct {
	reports  []GenerationReport
	failures []error
}

func (o *countingObserver) ObserveGeneration(report GenerationReport) {
	o.reports = append(o.reports, report)
}

func (o *countingObserver) ObserveFailure(err error) {
	o.failures = append(o.failures, err)
}

var errOracleDown = errors.New("oracle unavailable")

func letters(s string) Specimen[string] {
	out := make(Specimen[string], 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func intsSpecimen(vals ...int) Specimen[int] {
	return Specimen[int](vals)
}

func randomPopulation(rng RandomSource, size, length int) []Specimen[int] {
	population := make([]Specimen[int], size)
	for i := range population {
		s := make(Specimen[int], length)
		for j := range s {
			s[j] = rng.Intn(10)
		}
		population[i] = s
	}
	return population
}

func sortedCopy(s Specimen[int]) []int {
	out := slices.Clone([]int(s))
	slices.Sort(out)
	return out
}
