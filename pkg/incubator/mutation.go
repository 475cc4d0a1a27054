package incubator

import (
	"fmt"
	"slices"

	errs "github.com/ducminhle1904/incubator/internal/errors"
)

// SwapAlleles exchanges the genes at two distinct random indices.
// Specimens shorter than two genes are left unchanged.
func SwapAlleles[G comparable](s Specimen[G], rng RandomSource) {
	if len(s) < 2 {
		return
	}
	i := rng.Intn(len(s))
	j := rng.Intn(len(s))
	for i == j {
		j = rng.Intn(len(s))
	}
	s[i], s[j] = s[j], s[i]
}

// DestroyAllele removes the gene at a random index
func DestroyAllele[G comparable](s *Specimen[G], rng RandomSource) error {
	if len(*s) == 0 {
		return errs.NewEmptySpecimenError("mutation", string(Destructive))
	}
	i := rng.Intn(len(*s))
	*s = slices.Delete(*s, i, i+1)
	return nil
}

// GenerateAllele inserts a gene drawn from universe at a random index in [0, len(s)]
func GenerateAllele[G comparable](s *Specimen[G], universe []G, rng RandomSource) error {
	if len(universe) == 0 {
		return errs.NewConfigurationError("mutation", string(Generative), "allele universe is empty")
	}
	gene := universe[rng.Intn(len(universe))]
	i := rng.Intn(len(*s) + 1)
	*s = slices.Insert(*s, i, gene)
	return nil
}

// Mutate runs one trial per specimen and applies mutationType in place to every specimen
// whose trial falls below rate. It returns the number of specimens mutated.
func Mutate[G comparable](generation []Specimen[G], rate float64, mutationType MutationType, universe []G, rng RandomSource) (int, error) {
	if err := validateMutationRate(rate); err != nil {
		return 0, err
	}
	switch mutationType {
	case AlleleSwap, Destructive:
	case Generative:
		if len(universe) == 0 {
			return 0, errs.NewConfigurationError("mutation", "Mutate",
				"generative mutation requires a populated allele universe")
		}
	default:
		return 0, errs.NewConfigurationError("mutation", "Mutate",
			fmt.Sprintf("unknown mutation type %q", mutationType))
	}

	mutated := 0
	for i := range generation {
		if rng.Float64() >= rate {
			continue
		}

		switch mutationType {
		case AlleleSwap:
			SwapAlleles(generation[i], rng)
		case Destructive:
			if err := DestroyAllele(&generation[i], rng); err != nil {
				return mutated, err
			}
		case Generative:
			if err := GenerateAllele(&generation[i], universe, rng); err != nil {
				return mutated, err
			}
		}
		mutated++
	}
	return mutated, nil
}
