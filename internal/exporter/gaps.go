package exporter

import (
	"log/slog"

	"sensorprep/pkg/contracts/domain"
)

// GapHeaders are the columns of the gap list export
var GapHeaders = []string{"column", "start", "end", "elapsed_seconds", "missing_seconds"}

// GapExporter writes the gaps of a continuity report as a flat CSV table
type GapExporter struct {
	writer *CSVWriter
}

// NewGapExporter creates a gap exporter on top of w
func NewGapExporter(w *CSVWriter) *GapExporter {
	return &GapExporter{writer: w}
}

// GapRecords flattens report gaps into CSV records, column by column
func GapRecords(report domain.ContinuityReport) [][]string {
	var records [][]string
	for _, col := range report.Columns {
		for _, g := range col.Gaps {
			records = append(records, []string{
				col.Column,
				formatTime(g.Start),
				formatTime(g.End),
				formatFloat(g.ElapsedSeconds),
				formatInt(g.MissingSeconds),
			})
		}
	}
	return records
}

// Export writes the gap table to filePath; a report without gaps yields a header-only file
func (e *GapExporter) Export(filePath string, report domain.ContinuityReport) error {
	records := GapRecords(report)
	e.writer.logger.Info("Exporting gap table",
		slog.String("file", filePath),
		slog.Int("gaps", len(records)))
	return e.writer.WriteSimpleCSV(filePath, GapHeaders, records)
}
