package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/incubator/internal/runner"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteWorkbookXLSX writes a workbook with a trial summary, the generation history
// of every trial, and the final population of every trial
func (r *DefaultExcelReporter) WriteWorkbookXLSX(results []runner.TrialResult, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	// Replace default sheet and create additional sheets
	if err := fx.SetSheetName(fx.GetSheetName(0), SummarySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(GenerationsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(PopulationSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, SummarySheet, results, styles); err != nil {
		return err
	}
	if err := r.writeGenerationsSheet(fx, GenerationsSheet, results, styles); err != nil {
		return err
	}
	if err := r.writePopulationSheet(fx, PopulationSheet, results, styles); err != nil {
		return err
	}

	// Save workbook
	return fx.SaveAs(path)
}

// createExcelStyles creates all Excel styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	lightBorder := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - Dark slate background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Title style
	styles.TitleStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})
	if err != nil {
		return styles, err
	}

	// Base style (light borders)
	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Decimal style (two places, right aligned)
	styles.DecimalStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Solved style (light green background)
	styles.SolvedStyle, err = fx.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"E6FFE6"},
			Pattern: 1,
		},
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Failed style (light red background)
	styles.FailedStyle, err = fx.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFE6E6"},
			Pattern: 1,
		},
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

// WriteRow writes values starting at column A of row with one style
func (r *DefaultExcelReporter) WriteRow(fx *excelize.File, sheet string, row int, values []interface{}, style int) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		fx.SetCellValue(sheet, cell, v)
		fx.SetCellStyle(sheet, cell, cell, style)
	}
}

func (r *DefaultExcelReporter) writeHeader(fx *excelize.File, sheet string, row int, headers []string, styles ExcelStyles) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
}

// writeSummarySheet writes one row per trial
func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, results []runner.TrialResult, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 12) // Trial
	fx.SetColWidth(sheet, "B", "B", 8)  // Seed
	fx.SetColWidth(sheet, "C", "C", 12) // Generations
	fx.SetColWidth(sheet, "D", "D", 8)  // Solved
	fx.SetColWidth(sheet, "E", "F", 12) // Scores
	fx.SetColWidth(sheet, "G", "G", 40) // Best
	fx.SetColWidth(sheet, "H", "H", 12) // Duration
	fx.SetColWidth(sheet, "I", "I", 40) // Error

	fx.SetCellValue(sheet, "A1", "TRIAL SUMMARY")
	fx.SetCellStyle(sheet, "A1", "A1", styles.TitleStyle)

	headers := []string{"Trial", "Seed", "Generations", "Solved", "Best Score", "Max Score", "Best Specimen", "Duration (ms)", "Error"}
	r.writeHeader(fx, sheet, 3, headers, styles)

	row := 4
	solved := 0
	for _, res := range results {
		style := styles.BaseStyle
		errText := ""
		switch {
		case res.Error != nil:
			style = styles.FailedStyle
			errText = res.Error.Error()
		case res.Solved:
			style = styles.SolvedStyle
			solved++
		}

		r.WriteRow(fx, sheet, row, []interface{}{
			res.ID,
			res.Seed,
			res.Generations,
			res.Solved,
			res.BestScore,
			res.MaxScore,
			res.Best,
			res.Duration.Milliseconds(),
			errText,
		}, style)
		row++
	}

	row++
	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	fx.SetCellValue(sheet, totalCell, fmt.Sprintf("Solved %d of %d trials", solved, len(results)))
	fx.SetCellStyle(sheet, totalCell, totalCell, styles.TitleStyle)

	if len(results) > 0 {
		return fx.AutoFilter(sheet, fmt.Sprintf("A3:I%d", 3+len(results)), []excelize.AutoFilterOptions{})
	}
	return nil
}

// writeGenerationsSheet writes one row per committed generation of every trial
func (r *DefaultExcelReporter) writeGenerationsSheet(fx *excelize.File, sheet string, results []runner.TrialResult, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 12)
	fx.SetColWidth(sheet, "B", "O", 12)

	r.writeHeader(fx, sheet, 1, historyHeader, styles)

	row := 2
	for _, res := range results {
		for i, report := range res.History {
			r.WriteRow(fx, sheet, row, []interface{}{
				res.ID,
				res.Seed,
				report.Generation,
				string(report.CrossoverType),
				string(report.MutationType),
				report.Survivors,
				report.PoolSize,
				report.Pairings,
				report.Mutations,
				report.PopulationSize,
				report.MinLength,
				report.MaxLength,
				report.MeanLength,
				valueAt(res.BestScores, i),
				valueAt(res.MeanScores, i),
			}, styles.BaseStyle)

			meanCell, _ := excelize.CoordinatesToCellName(13, row)
			scoreCell, _ := excelize.CoordinatesToCellName(15, row)
			fx.SetCellStyle(sheet, meanCell, meanCell, styles.DecimalStyle)
			fx.SetCellStyle(sheet, scoreCell, scoreCell, styles.DecimalStyle)
			row++
		}
	}

	// Freeze header row
	return fx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// writePopulationSheet writes the final population of every trial
func (r *DefaultExcelReporter) writePopulationSheet(fx *excelize.File, sheet string, results []runner.TrialResult, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 12) // Trial
	fx.SetColWidth(sheet, "B", "B", 8)  // Index
	fx.SetColWidth(sheet, "C", "C", 40) // Specimen
	fx.SetColWidth(sheet, "D", "D", 8)  // Length

	r.writeHeader(fx, sheet, 1, []string{"Trial", "Index", "Specimen", "Length"}, styles)

	row := 2
	for _, res := range results {
		for i, specimen := range res.Population {
			style := styles.BaseStyle
			if specimen == res.Best {
				style = styles.SolvedStyle
			}
			r.WriteRow(fx, sheet, row, []interface{}{res.ID, i, specimen, len([]rune(specimen))}, style)
			row++
		}
	}
	return nil
}

// Package-level convenience function
func WriteWorkbookXLSX(results []runner.TrialResult, path string) error {
	return NewDefaultExcelReporter().WriteWorkbookXLSX(results, path)
}
