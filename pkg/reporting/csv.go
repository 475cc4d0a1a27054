package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ducminhle1904/incubator/internal/runner"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

var historyHeader = []string{
	"Trial",
	"Seed",
	"Generation",
	"Crossover",
	"Mutation",
	"Survivors",
	"Pool_Size",
	"Pairings",
	"Mutations",
	"Population_Size",
	"Min_Length",
	"Max_Length",
	"Mean_Length",
	"Best_Score",
	"Mean_Score",
}

// WriteHistoryCSV writes one row per committed generation of every trial
func (r *DefaultCSVReporter) WriteHistoryCSV(results []runner.TrialResult, path string) error {
	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// If the user requests an Excel file, delegate to Excel writer
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteWorkbookXLSX(results, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(historyHeader); err != nil {
		return err
	}

	for _, res := range results {
		for i, report := range res.History {
			row := []string{
				res.ID,
				strconv.FormatInt(res.Seed, 10),
				strconv.Itoa(report.Generation),
				string(report.CrossoverType),
				string(report.MutationType),
				strconv.Itoa(report.Survivors),
				strconv.Itoa(report.PoolSize),
				strconv.Itoa(report.Pairings),
				strconv.Itoa(report.Mutations),
				strconv.Itoa(report.PopulationSize),
				strconv.Itoa(report.MinLength),
				strconv.Itoa(report.MaxLength),
				fmt.Sprintf("%.4f", report.MeanLength),
				fmt.Sprintf("%.2f", valueAt(res.BestScores, i)),
				fmt.Sprintf("%.4f", valueAt(res.MeanScores, i)),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// Package-level convenience function
func WriteHistoryCSV(results []runner.TrialResult, path string) error {
	return NewDefaultCSVReporter().WriteHistoryCSV(results, path)
}
