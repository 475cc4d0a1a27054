package problem

import (
	"fmt"
	"math"
	"sort"

	errs "github.com/ducminhle1904/incubator/internal/errors"
	"github.com/ducminhle1904/incubator/pkg/incubator"
)

// ScoreFunc rates a specimen, higher is better
type ScoreFunc[G comparable] func(s incubator.Specimen[G]) float64

// ScoredSpecimen pairs a specimen with its score
type ScoredSpecimen[G comparable] struct {
	Specimen incubator.Specimen[G]
	Score    float64
}

// TruncationOracle keeps the best fraction of every generation it is shown.
// Specimens with equal scores keep their population order.
type TruncationOracle[G comparable] struct {
	score    ScoreFunc[G]
	fraction float64

	ranked    []ScoredSpecimen[G]
	survivors []incubator.Specimen[G]
}

// NewTruncationOracle creates an oracle keeping ceil(fraction * N) specimens, at least one
func NewTruncationOracle[G comparable](score ScoreFunc[G], fraction float64) (*TruncationOracle[G], error) {
	if score == nil {
		return nil, errs.NewConfigurationError("problem", "NewTruncationOracle", "score function is required")
	}
	if !(fraction > 0 && fraction <= 1) {
		return nil, errs.NewConfigurationError("problem", "NewTruncationOracle",
			fmt.Sprintf("survival fraction must be within (0,1], got %v", fraction))
	}
	return &TruncationOracle[G]{score: score, fraction: fraction}, nil
}

// Imprint scores and ranks the generation
func (o *TruncationOracle[G]) Imprint(generation []incubator.Specimen[G]) error {
	ranked := make([]ScoredSpecimen[G], len(generation))
	for i, s := range generation {
		score := o.score(s)
		if math.IsNaN(score) {
			return fmt.Errorf("specimen %d scored NaN", i)
		}
		ranked[i] = ScoredSpecimen[G]{Specimen: s, Score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	keep := 0
	if len(ranked) > 0 {
		keep = max(1, int(math.Ceil(o.fraction*float64(len(ranked)))))
	}
	survivors := make([]incubator.Specimen[G], keep)
	for i := range survivors {
		survivors[i] = ranked[i].Specimen
	}

	o.ranked = ranked
	o.survivors = survivors
	return nil
}

// Survivors returns the kept specimens, best first
func (o *TruncationOracle[G]) Survivors() []incubator.Specimen[G] {
	return o.survivors
}

// Best returns the top specimen of the last imprinted generation
func (o *TruncationOracle[G]) Best() (ScoredSpecimen[G], bool) {
	if len(o.ranked) == 0 {
		return ScoredSpecimen[G]{}, false
	}
	return o.ranked[0], true
}

// MeanScore returns the average score of the last imprinted generation
func (o *TruncationOracle[G]) MeanScore() float64 {
	if len(o.ranked) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range o.ranked {
		sum += r.Score
	}
	return sum / float64(len(o.ranked))
}
