package incubator

import (
	"fmt"
	"math"

	errs "github.com/ducminhle1904/incubator/internal/errors"
)

// SinglePointCut exchanges the genes after index c between two parents.
// child1 = p1[:c] + p2[c:], child2 = p2[:c] + p1[c:]. c is clamped to [0, min(len(p1), len(p2))].
func SinglePointCut[G comparable](p1, p2 Specimen[G], c int) (Specimen[G], Specimen[G]) {
	c = clampCut(c, min(len(p1), len(p2)))
	return splice(p1, p2, c), splice(p2, p1, c)
}

// TwoPointCut produces the two children of SinglePointCut at c1, followed by the two
// children obtained by exchanging the segment after c2 between them. c1 and c2 are
// swapped when given out of order.
func TwoPointCut[G comparable](p1, p2 Specimen[G], c1, c2 int) [4]Specimen[G] {
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	child1, child2 := SinglePointCut(p1, p2, c1)
	child3, child4 := SinglePointCut(child1, child2, c2)
	return [4]Specimen[G]{child1, child2, child3, child4}
}

// Crossover produces exactly genSize children from the breeding pool.
//
// Pool members are paired as (pool[i mod n], pool[(i+1) mod n]) for i = 0, 2, 4, ...,
// for ceil(genSize / arity) pairings, so an odd pool pairs its last member with the first.
// Cut indices are drawn as floor(len(first parent) * rng.Float64()).
func Crossover[G comparable](pool []Specimen[G], genSize int, crossoverType CrossoverType, rng RandomSource) ([]Specimen[G], error) {
	n := len(pool)
	if n < MinGenSize {
		return nil, errs.NewInsufficientPopulationError("crossover", string(crossoverType), n)
	}
	if err := validateGenSize(genSize); err != nil {
		return nil, err
	}
	arity := crossoverType.Arity()
	if arity == 0 {
		return nil, errs.NewConfigurationError("crossover", "Crossover",
			fmt.Sprintf("unknown crossover type %q", crossoverType))
	}

	pairings := Pairings(genSize, crossoverType)
	next := make([]Specimen[G], 0, pairings*arity)

	for p := 0; p < pairings; p++ {
		i := (2 * p) % n
		p1, p2 := pool[i], pool[(i+1)%n]

		switch crossoverType {
		case SinglePoint:
			c := drawCut(len(p1), rng)
			child1, child2 := SinglePointCut(p1, p2, c)
			next = append(next, child1, child2)
		case TwoPoint:
			c1 := drawCut(len(p1), rng)
			c2 := drawCut(len(p1), rng)
			children := TwoPointCut(p1, p2, c1, c2)
			next = append(next, children[:]...)
		}
	}

	return next[:genSize], nil
}

// Pairings returns how many parent pairs are needed to fill genSize children
func Pairings(genSize int, crossoverType CrossoverType) int {
	arity := crossoverType.Arity()
	if arity == 0 || genSize <= 0 {
		return 0
	}
	return (genSize + arity - 1) / arity
}

func drawCut(length int, rng RandomSource) int {
	return clampCut(int(math.Floor(float64(length)*rng.Float64())), length)
}

func clampCut(c, limit int) int {
	if c < 0 {
		return 0
	}
	if c > limit {
		return limit
	}
	return c
}

// splice returns prefix[:c] + suffix[c:] in freshly allocated storage
func splice[G comparable](prefix, suffix Specimen[G], c int) Specimen[G] {
	child := make(Specimen[G], 0, len(suffix))
	child = append(child, prefix[:c]...)
	child = append(child, suffix[c:]...)
	return child
}
