package reporting

import (
	"io"
	"path/filepath"

	"github.com/ducminhle1904/incubator/internal/runner"
	"github.com/ducminhle1904/incubator/pkg/config"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	json    *DefaultJSONFormatter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter(root string, out io.Writer) *DefaultReporter {
	return &DefaultReporter{
		console: NewConsoleReporterTo(out),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		json:    NewDefaultJSONFormatter(),
		paths:   NewDefaultPathManager(root),
	}
}

// Console output methods
func (r *DefaultReporter) PrintConfig(cfg *config.RunConfig) {
	r.console.PrintConfig(cfg)
}

func (r *DefaultReporter) PrintSummary(results []runner.TrialResult) {
	r.console.PrintSummary(results)
}

func (r *DefaultReporter) PrintHistory(result runner.TrialResult, last int) {
	r.console.PrintHistory(result, last)
}

// File output methods
func (r *DefaultReporter) WriteHistoryCSV(results []runner.TrialResult, path string) error {
	return r.csv.WriteHistoryCSV(results, path)
}

func (r *DefaultReporter) WriteWorkbookXLSX(results []runner.TrialResult, path string) error {
	return r.excel.WriteWorkbookXLSX(results, path)
}

func (r *DefaultReporter) WriteSummaryJSON(cfg *config.RunConfig, results []runner.TrialResult, path string) error {
	return r.json.WriteSummaryJSON(cfg, results, path)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(target string, crossover, mutation string) string {
	return r.paths.GetDefaultOutputDir(target, crossover, mutation)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// HistoryLength is how many generations PrintHistory shows for the best trial
const HistoryLength = 10

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	reporter Reporter
	cfg      *config.RunConfig
}

// NewReportingManager creates a reporting manager for a run, console output goes to out
func NewReportingManager(cfg *config.RunConfig, out io.Writer) *ReportingManager {
	return &ReportingManager{
		reporter: NewDefaultReporter(cfg.Output.Dir, out),
		cfg:      cfg,
	}
}

// OutputDir returns the directory file reports are written to
func (m *ReportingManager) OutputDir() string {
	return m.reporter.GetDefaultOutputDir(m.cfg.Problem.Target, string(m.cfg.Engine.CrossoverType), string(m.cfg.Engine.MutationType))
}

// ReportConfig prints the configuration when console output is enabled
func (m *ReportingManager) ReportConfig() {
	if m.cfg.HasFormat(config.FormatConsole) {
		m.reporter.PrintConfig(m.cfg)
	}
}

// ReportResults outputs results in every configured format and returns the written file paths
func (m *ReportingManager) ReportResults(results []runner.TrialResult) ([]string, error) {
	// Console output
	if m.cfg.HasFormat(config.FormatConsole) {
		m.reporter.PrintSummary(results)
		if best, ok := bestResult(results); ok && m.cfg.Output.Verbose {
			m.reporter.PrintHistory(best, HistoryLength)
		}
	}

	outputDir := m.OutputDir()
	var written []string

	if m.cfg.HasFormat(config.FormatCSV) {
		csvPath := filepath.Join(outputDir, HistoryCSVFile)
		if err := m.reporter.WriteHistoryCSV(results, csvPath); err != nil {
			return written, err
		}
		written = append(written, csvPath)
	}

	if m.cfg.HasFormat(config.FormatExcel) {
		xlsxPath := filepath.Join(outputDir, WorkbookFile)
		if err := m.reporter.WriteWorkbookXLSX(results, xlsxPath); err != nil {
			return written, err
		}
		written = append(written, xlsxPath)
	}

	if m.cfg.HasFormat(config.FormatJSON) {
		jsonPath := filepath.Join(outputDir, SummaryJSONFile)
		if err := m.reporter.WriteSummaryJSON(m.cfg, results, jsonPath); err != nil {
			return written, err
		}
		written = append(written, jsonPath)
	}

	return written, nil
}

// bestResult returns the highest scoring trial that finished without error
func bestResult(results []runner.TrialResult) (runner.TrialResult, bool) {
	bestIdx := -1
	for i, res := range results {
		if res.Error != nil {
			continue
		}
		if bestIdx < 0 || res.BestScore > results[bestIdx].BestScore {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return runner.TrialResult{}, false
	}
	return results[bestIdx], true
}
