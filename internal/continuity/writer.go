package continuity

import (
	"bufio"
	"os"
	"path/filepath"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts/domain"
)

// ReportWriter writes a formatted report to a file
type ReportWriter struct {
	formatter Formatter
}

// NewReportWriter creates a writer that renders with f
func NewReportWriter(f Formatter) *ReportWriter {
	return &ReportWriter{formatter: f}
}

// WriteFile renders report into path, replacing any existing file
func (w *ReportWriter) WriteFile(path string, report *domain.ContinuityReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewIOError("failed to create report directory", err).WithContext("path", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("failed to create report file", err).WithContext("path", path)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := w.formatter.Format(bw, report); err != nil {
		return errors.NewIOError("failed to write report", err).WithContext("path", path)
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIOError("failed to write report", err).WithContext("path", path)
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("failed to close report file", err).WithContext("path", path)
	}
	return nil
}
