// Package reporting provides output generation for incubator runs
package reporting

import (
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/incubator/internal/runner"
	"github.com/ducminhle1904/incubator/pkg/config"
)

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	PrintConfig(cfg *config.RunConfig)
	PrintSummary(results []runner.TrialResult)
	PrintHistory(result runner.TrialResult, last int)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteHistoryCSV(results []runner.TrialResult, path string) error
	WriteWorkbookXLSX(results []runner.TrialResult, path string) error
	WriteSummaryJSON(cfg *config.RunConfig, results []runner.TrialResult, path string) error
}

// ExcelFormatter defines interface for Excel-specific formatting
type ExcelFormatter interface {
	WriteRow(fx *excelize.File, sheet string, row int, values []interface{}, style int)
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(target string, crossover, mutation string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	BaseStyle    int
	DecimalStyle int
	SolvedStyle  int
	FailedStyle  int
	TitleStyle   int
}

// File names written into the output directory
const (
	HistoryCSVFile   = "generations.csv"
	WorkbookFile     = "incubator.xlsx"
	SummaryJSONFile  = "summary.json"
	SummarySheet     = "Summary"
	GenerationsSheet = "Generations"
	PopulationSheet  = "Population"
)
