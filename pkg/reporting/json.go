package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ducminhle1904/incubator/internal/runner"
	"github.com/ducminhle1904/incubator/pkg/config"
)

// RunSummary is the JSON document written for a run
type RunSummary struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Config      *config.RunConfig   `json:"config"`
	Solved      int                 `json:"solved"`
	Trials      []TrialSummary      `json:"trials"`
	Best        *runner.TrialResult `json:"best,omitempty"`
}

// TrialSummary is one trial without its per-generation history
type TrialSummary struct {
	ID          string  `json:"id"`
	Seed        int64   `json:"seed"`
	Generations int     `json:"generations"`
	Solved      bool    `json:"solved"`
	Best        string  `json:"best"`
	BestScore   float64 `json:"best_score"`
	MaxScore    float64 `json:"max_score"`
	DurationMs  int64   `json:"duration_ms"`
	Error       string  `json:"error,omitempty"`
}

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// BuildSummary assembles the run summary. Best holds the full history of the
// highest scoring trial.
func (f *DefaultJSONFormatter) BuildSummary(cfg *config.RunConfig, results []runner.TrialResult) RunSummary {
	summary := RunSummary{
		GeneratedAt: time.Now().UTC(),
		Config:      cfg,
		Trials:      make([]TrialSummary, 0, len(results)),
	}

	bestIdx := -1
	for i, res := range results {
		ts := TrialSummary{
			ID:          res.ID,
			Seed:        res.Seed,
			Generations: res.Generations,
			Solved:      res.Solved,
			Best:        res.Best,
			BestScore:   res.BestScore,
			MaxScore:    res.MaxScore,
			DurationMs:  res.Duration.Milliseconds(),
		}
		if res.Error != nil {
			ts.Error = res.Error.Error()
		}
		if res.Solved {
			summary.Solved++
		}
		summary.Trials = append(summary.Trials, ts)

		if res.Error == nil && (bestIdx < 0 || res.BestScore > results[bestIdx].BestScore) {
			bestIdx = i
		}
	}

	if bestIdx >= 0 {
		best := results[bestIdx]
		summary.Best = &best
	}
	return summary
}

// FormatSummary formats the run summary as indented JSON
func (f *DefaultJSONFormatter) FormatSummary(cfg *config.RunConfig, results []runner.TrialResult) ([]byte, error) {
	return json.MarshalIndent(f.BuildSummary(cfg, results), "", "  ")
}

// PrintSummary prints the run summary as JSON to console
func (f *DefaultJSONFormatter) PrintSummary(cfg *config.RunConfig, results []runner.TrialResult) {
	data, _ := f.FormatSummary(cfg, results)
	fmt.Println(string(data))
}

// WriteSummaryJSON writes the run summary to path
func (f *DefaultJSONFormatter) WriteSummaryJSON(cfg *config.RunConfig, results []runner.TrialResult, path string) error {
	data, err := f.FormatSummary(cfg, results)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Package-level convenience function
func WriteSummaryJSON(cfg *config.RunConfig, results []runner.TrialResult, path string) error {
	return NewDefaultJSONFormatter().WriteSummaryJSON(cfg, results, path)
}
