package incubator

import (
	"slices"

	errs "github.com/ducminhle1904/incubator/internal/errors"
)

// Reconcile builds a breeding pool of exactly len(population) specimens.
//
// Survivors come first in the order the oracle returned them. If there are fewer survivors
// than population members, each survivor removes its first equal match from a working copy
// of the population and the remaining originals are appended in population order.
// Survivors beyond len(population) are dropped.
func Reconcile[G comparable](population, survivors []Specimen[G]) ([]Specimen[G], error) {
	n := len(population)
	if n < MinGenSize {
		return nil, errs.NewInsufficientPopulationError("reconciler", "Reconcile", n)
	}

	if len(survivors) >= n {
		pool := make([]Specimen[G], n)
		copy(pool, survivors[:n])
		return pool, nil
	}

	remaining := make([]Specimen[G], n)
	copy(remaining, population)
	for _, s := range survivors {
		idx := slices.IndexFunc(remaining, func(candidate Specimen[G]) bool {
			return candidate.Equal(s)
		})
		if idx >= 0 {
			remaining = slices.Delete(remaining, idx, idx+1)
		}
	}

	pool := make([]Specimen[G], 0, n)
	pool = append(pool, survivors...)
	pool = append(pool, remaining...)

	// A survivor with no match in the population removed nothing
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool, nil
}
