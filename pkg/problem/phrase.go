// Package problem holds ready-made oracles, seeders and demo problems for the incubator engine.
package problem

import (
	"strings"

	errs "github.com/ducminhle1904/incubator/internal/errors"
	"github.com/ducminhle1904/incubator/pkg/incubator"
)

// DefaultAlphabet is used when a phrase problem is created without one
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TargetPhrase evolves rune specimens towards a fixed phrase.
// Score is the number of matching positions minus the length difference.
type TargetPhrase struct {
	target   []rune
	alphabet []rune
}

// NewTargetPhrase validates the target against the alphabet
func NewTargetPhrase(target, alphabet string) (*TargetPhrase, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	if target == "" {
		return nil, errs.NewConfigurationError("problem", "NewTargetPhrase", "target phrase is empty")
	}
	for _, r := range target {
		if !strings.ContainsRune(alphabet, r) {
			return nil, errs.NewConfigurationError("problem", "NewTargetPhrase",
				"target contains "+string(r)+" which is not in the alphabet")
		}
	}
	return &TargetPhrase{
		target:   []rune(target),
		alphabet: uniqueRunes(alphabet),
	}, nil
}

// Target returns the phrase being evolved towards
func (p *TargetPhrase) Target() string {
	return string(p.target)
}

// Alphabet returns the allele universe for generative mutation
func (p *TargetPhrase) Alphabet() []rune {
	out := make([]rune, len(p.alphabet))
	copy(out, p.alphabet)
	return out
}

// Score rates s against the target
func (p *TargetPhrase) Score(s incubator.Specimen[rune]) float64 {
	matches := 0
	for i := 0; i < min(len(s), len(p.target)); i++ {
		if s[i] == p.target[i] {
			matches++
		}
	}
	diff := len(s) - len(p.target)
	if diff < 0 {
		diff = -diff
	}
	return float64(matches - diff)
}

// MaxScore is the score of an exact match
func (p *TargetPhrase) MaxScore() float64 {
	return float64(len(p.target))
}

// Solved reports whether s spells the target exactly
func (p *TargetPhrase) Solved(s incubator.Specimen[rune]) bool {
	return string([]rune(s)) == string(p.target)
}

// Oracle returns a truncation oracle scoring by Score
func (p *TargetPhrase) Oracle(survivalRate float64) (*TruncationOracle[rune], error) {
	return NewTruncationOracle[rune](p.Score, survivalRate)
}

// Seeder returns a seeder producing count random specimens of the target's length
func (p *TargetPhrase) Seeder(count int, rng incubator.RandomSource) *RandomSeeder[rune] {
	return &RandomSeeder[rune]{
		Alphabet:  p.Alphabet(),
		Count:     count,
		MinLength: len(p.target),
		MaxLength: len(p.target),
		Rng:       rng,
	}
}

// Render turns a rune specimen back into text
func Render(s incubator.Specimen[rune]) string {
	return string([]rune(s))
}

func uniqueRunes(s string) []rune {
	seen := make(map[rune]bool)
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
