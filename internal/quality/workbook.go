package quality

import (
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts/domain"
)

const (
	sheetOverview = "Overview"
	sheetMissing  = "Missing Values"
	sheetStats    = "Numerical Statistics"
	sheetOutliers = "Outliers"
	sheetSample   = "Sample"
)

// WriteWorkbook saves the quality summaries as an Excel workbook, one sheet
// per section
func WriteWorkbook(path string, report *domain.QualityReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return workbookError(path, err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return workbookError(path, err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{sheetOverview, overviewRows(report)},
		{sheetMissing, missingRows(report)},
		{sheetStats, statsRows(report)},
		{sheetOutliers, outlierRows(report)},
		{sheetSample, sampleRows(report)},
	}

	for i, sheet := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return workbookError(path, err)
			}
		}
		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return workbookError(path, err)
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return workbookError(path, err)
			}
		}
		if len(sheet.rows) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(sheet.rows[0]), 1)
			if err := f.SetCellStyle(sheet.name, "A1", last, header); err != nil {
				return workbookError(path, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return workbookError(path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return workbookError(path, err)
	}
	return nil
}

func workbookError(path string, err error) error {
	return errors.NewIOError("failed to write quality workbook", err).WithContext("path", path)
}

func overviewRows(report *domain.QualityReport) [][]any {
	return [][]any{
		{"Metric", "Value"},
		{"Title", report.Title},
		{"Source", report.Source},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Rows", report.Rows},
		{"Columns", len(report.Header)},
		{"Missing cells", report.MissingCells()},
		{"Duplicate rows", report.Duplicates},
	}
}

func missingRows(report *domain.QualityReport) [][]any {
	rows := [][]any{{"Column", "Type", "Missing Count", "Missing Percentage", "Unique"}}
	for _, c := range report.Columns {
		rows = append(rows, []any{c.Name, string(c.Type), c.Missing, c.MissingPercentage, c.Unique})
	}
	return rows
}

func statsRows(report *domain.QualityReport) [][]any {
	rows := [][]any{{"Column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}}
	for _, c := range report.NumericColumns() {
		s := c.Stats
		rows = append(rows, []any{c.Name, s.Count,
			cellNum(s.Mean), cellNum(s.Std), cellNum(s.Min), cellNum(s.Q1),
			cellNum(s.Median), cellNum(s.Q3), cellNum(s.Max)})
	}
	return rows
}

func outlierRows(report *domain.QualityReport) [][]any {
	rows := [][]any{{"Column", "Q1", "Q3", "IQR", "Lower", "Upper", "Outlier Count", "Percentage"}}
	for _, c := range report.NumericColumns() {
		o := c.Outliers
		rows = append(rows, []any{c.Name,
			cellNum(o.Q1), cellNum(o.Q3), cellNum(o.IQR), cellNum(o.Lower), cellNum(o.Upper),
			o.Count, o.Percentage})
	}
	return rows
}

func sampleRows(report *domain.QualityReport) [][]any {
	rows := make([][]any, 0, len(report.Sample)+1)
	header := make([]any, len(report.Header))
	for i, h := range report.Header {
		header[i] = h
	}
	rows = append(rows, header)
	for _, r := range report.Sample {
		row := make([]any, len(r))
		for i, v := range r {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// cellNum keeps NaN out of numeric cells
func cellNum(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return v
}
