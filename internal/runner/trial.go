package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ducminhle1904/incubator/internal/logger"
	"github.com/ducminhle1904/incubator/pkg/config"
	"github.com/ducminhle1904/incubator/pkg/incubator"
	"github.com/ducminhle1904/incubator/pkg/problem"
)

// TrialConfig describes one independent evolution of the phrase problem
type TrialConfig struct {
	ID             string
	Seed           int64
	Engine         incubator.Config
	Target         string
	Alphabet       string
	SurvivalRate   float64
	Generations    int
	StopWhenSolved bool
}

// TrialResult is the outcome of one trial
type TrialResult struct {
	ID          string                       `json:"id"`
	Seed        int64                        `json:"seed"`
	Generations int                          `json:"generations"`
	Solved      bool                         `json:"solved"`
	Best        string                       `json:"best"`
	BestScore   float64                      `json:"best_score"`
	MaxScore    float64                      `json:"max_score"`
	History     []incubator.GenerationReport `json:"history"`
	BestScores  []float64                    `json:"best_scores"`
	MeanScores  []float64                    `json:"mean_scores"`
	Population  []string                     `json:"population"`
	Duration    time.Duration                `json:"duration"`
	Error       error                        `json:"-"`

	scored bool
}

// Options are the optional hooks a trial reports through
type Options struct {
	// NewObserver returns the engine observer for a trial, may be nil
	NewObserver func(trialID string) incubator.Observer
	// OnBest is called with the best score of every imprinted generation, may be nil
	OnBest func(trialID string, score float64)
	// OnTrialDone is called by RunTrials after each result is collected, may be nil
	OnTrialDone func(result TrialResult)
	Logger      *logger.Logger
}

// TrialConfigs expands a run configuration into one trial per seed, seeds counting up from Run.Seed
func TrialConfigs(cfg *config.RunConfig) []TrialConfig {
	trials := make([]TrialConfig, cfg.Run.Trials)
	for i := range trials {
		trials[i] = TrialConfig{
			ID:             fmt.Sprintf("trial-%03d", i+1),
			Seed:           cfg.Run.Seed + int64(i),
			Engine:         cfg.Engine,
			Target:         cfg.Problem.Target,
			Alphabet:       cfg.Problem.Alphabet,
			SurvivalRate:   cfg.Problem.SurvivalRate,
			Generations:    cfg.Run.Generations,
			StopWhenSolved: cfg.Run.StopWhenSolved,
		}
	}
	return trials
}

// RunTrial evolves a fresh engine with its own random stream until the generation
// limit, the target is reached, or ctx is cancelled
func RunTrial(ctx context.Context, tc TrialConfig, opts Options) TrialResult {
	start := time.Now()
	result := TrialResult{ID: tc.ID, Seed: tc.Seed}

	err := runTrial(ctx, tc, opts, &result)
	result.Error = err
	result.Duration = time.Since(start)

	if opts.Logger != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			opts.Logger.Warning("%s: stopped after %d generations: %v", tc.ID, result.Generations, err)
		case err != nil:
			opts.Logger.LogError(tc.ID, err)
		}
		opts.Logger.LogTrialCompletion(tc.ID, result.Generations, result.Solved, result.BestScore, result.Best, result.Duration)
	}
	return result
}

func runTrial(ctx context.Context, tc TrialConfig, opts Options, result *TrialResult) error {
	phrase, err := problem.NewTargetPhrase(tc.Target, tc.Alphabet)
	if err != nil {
		return err
	}
	result.MaxScore = phrase.MaxScore()

	rng := incubator.NewRandomSource(tc.Seed)
	inc, err := incubator.NewIncubator[rune](tc.Engine, rng)
	if err != nil {
		return err
	}
	inc.SetAlleleUniverse(phrase.Alphabet())
	if opts.NewObserver != nil {
		if observer := opts.NewObserver(tc.ID); observer != nil {
			inc.SetObserver(observer)
		}
	}

	if err := inc.SeedFrom(phrase.Seeder(tc.Engine.GenSize, rng)); err != nil {
		return err
	}

	oracle, err := phrase.Oracle(tc.SurvivalRate)
	if err != nil {
		return err
	}

	defer func() {
		result.Generations = inc.GenerationIndex()
		finalize(phrase, inc.Generation(), result)
	}()

	for gen := 0; gen < tc.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		report, err := inc.Advance(oracle)
		if err != nil {
			return err
		}
		result.History = append(result.History, report)

		best, _ := oracle.Best()
		result.BestScores = append(result.BestScores, best.Score)
		result.MeanScores = append(result.MeanScores, oracle.MeanScore())
		result.consider(best.Specimen, best.Score)
		if opts.OnBest != nil {
			opts.OnBest(tc.ID, best.Score)
		}
		if opts.Logger != nil {
			opts.Logger.LogGenerationReport(tc.ID, report, best.Score, problem.Render(best.Specimen))
		}

		if tc.StopWhenSolved && phrase.Solved(best.Specimen) {
			break
		}
	}
	return nil
}

// finalize scores the last generation and keeps the best specimen seen by the trial
func finalize(phrase *problem.TargetPhrase, generation []incubator.Specimen[rune], result *TrialResult) {
	result.Population = make([]string, len(generation))
	for i, s := range generation {
		result.Population[i] = problem.Render(s)
		result.consider(s, phrase.Score(s))
	}
	result.Solved = result.Best == phrase.Target()
}

func (r *TrialResult) consider(s incubator.Specimen[rune], score float64) {
	if !r.scored || score > r.BestScore {
		r.Best = problem.Render(s)
		r.BestScore = score
		r.scored = true
	}
}
