package reporting

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/incubator/internal/runner"
	"github.com/ducminhle1904/incubator/pkg/config"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporterTo creates a console reporter writing to w
func NewConsoleReporterTo(w io.Writer) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: w}
}

// PrintConfig prints the run configuration
func (r *DefaultConsoleReporter) PrintConfig(cfg *config.RunConfig) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("INCUBATOR CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	// Engine section
	t.AppendRows([]table.Row{
		{"Gen Size", cfg.Engine.GenSize},
		{"Mutation Rate", fmt.Sprintf("%.4f", cfg.Engine.MutationRate)},
		{"Crossover", cfg.Engine.CrossoverType},
		{"Mutation", cfg.Engine.MutationType},
	})

	t.AppendSeparator()

	// Problem section
	t.AppendRows([]table.Row{
		{"Target", fmt.Sprintf("%q", cfg.Problem.Target)},
		{"Survival Rate", fmt.Sprintf("%.2f%%", cfg.Problem.SurvivalRate*100)},
	})

	t.AppendSeparator()

	// Run section
	t.AppendRows([]table.Row{
		{"Generations", cfg.Run.Generations},
		{"Trials", fmt.Sprintf("%d (workers: %d)", cfg.Run.Trials, cfg.Run.Workers)},
		{"Seed", cfg.Run.Seed},
		{"Stop When Solved", cfg.Run.StopWhenSolved},
		{"Outputs", strings.Join(cfg.Output.Formats, ", ")},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintSummary prints one row per trial followed by aggregate statistics
func (r *DefaultConsoleReporter) PrintSummary(results []runner.TrialResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TRIAL RESULTS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Trial", "Seed", "Generations", "Solved", "Best Score", "Best Specimen", "Duration"})

	solved := 0
	var generations, scores []float64
	for _, res := range results {
		status := "no"
		if res.Error != nil {
			status = "error"
		} else if res.Solved {
			status = "yes"
			solved++
		}
		generations = append(generations, float64(res.Generations))
		scores = append(scores, res.BestScore)

		t.AppendRow(table.Row{
			res.ID,
			res.Seed,
			res.Generations,
			status,
			fmt.Sprintf("%.1f / %.1f", res.BestScore, res.MaxScore),
			fmt.Sprintf("%q", res.Best),
			res.Duration.Round(time.Millisecond).String(),
		})
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		fmt.Sprintf("%.1f ± %.1f", average(generations), stdDev(generations)),
		fmt.Sprintf("%d/%d", solved, len(results)),
		fmt.Sprintf("%.1f ± %.1f", average(scores), stdDev(scores)),
		"",
		"",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, WidthMax: 40},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintHistory prints the last generations of a trial, all of them when last <= 0
func (r *DefaultConsoleReporter) PrintHistory(result runner.TrialResult, last int) {
	start := 0
	if last > 0 && len(result.History) > last {
		start = len(result.History) - last
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("GENERATION HISTORY: %s", result.ID))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Gen", "Survivors", "Pool", "Pairings", "Mutations", "Size", "Length", "Best", "Mean"})

	for i := start; i < len(result.History); i++ {
		report := result.History[i]
		t.AppendRow(table.Row{
			report.Generation,
			report.Survivors,
			report.PoolSize,
			report.Pairings,
			report.Mutations,
			report.PopulationSize,
			fmt.Sprintf("%d..%d (%.1f)", report.MinLength, report.MaxLength, report.MeanLength),
			fmt.Sprintf("%.1f", valueAt(result.BestScores, i)),
			fmt.Sprintf("%.2f", valueAt(result.MeanScores, i)),
		})
	}

	t.Render()
	fmt.Fprintln(r.out)
}

// Helper functions for statistics
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	avg := average(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)-1))
}

func valueAt(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return 0
	}
	return values[i]
}
