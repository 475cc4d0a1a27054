package problem

import (
	"fmt"

	errs "github.com/ducminhle1904/incubator/internal/errors"
	"github.com/ducminhle1904/incubator/pkg/incubator"
)

// RandomSeeder builds an initial population of random specimens over an alphabet
type RandomSeeder[G comparable] struct {
	Alphabet  []G
	Count     int
	MinLength int
	MaxLength int
	Rng       incubator.RandomSource
}

// Seeds implements incubator.Seeder
func (rs *RandomSeeder[G]) Seeds() ([]incubator.Specimen[G], error) {
	if err := rs.validate(); err != nil {
		return nil, err
	}

	seeds := make([]incubator.Specimen[G], rs.Count)
	for i := range seeds {
		length := rs.MinLength
		if span := rs.MaxLength - rs.MinLength; span > 0 {
			length += rs.Rng.Intn(span + 1)
		}
		s := make(incubator.Specimen[G], length)
		for j := range s {
			s[j] = rs.Alphabet[rs.Rng.Intn(len(rs.Alphabet))]
		}
		seeds[i] = s
	}
	return seeds, nil
}

func (rs *RandomSeeder[G]) validate() error {
	switch {
	case rs.Rng == nil:
		return errs.NewConfigurationError("seeder", "Seeds", "random source is required")
	case len(rs.Alphabet) == 0:
		return errs.NewConfigurationError("seeder", "Seeds", "alphabet is empty")
	case rs.Count < incubator.MinGenSize:
		return errs.NewConfigurationError("seeder", "Seeds",
			fmt.Sprintf("count must be at least %d, got %d", incubator.MinGenSize, rs.Count))
	case rs.MinLength < 0 || rs.MaxLength < rs.MinLength:
		return errs.NewConfigurationError("seeder", "Seeds",
			fmt.Sprintf("invalid length range [%d,%d]", rs.MinLength, rs.MaxLength))
	}
	return nil
}
