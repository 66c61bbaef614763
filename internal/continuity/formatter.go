package continuity

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts"
	"sensorprep/pkg/contracts/domain"
)

// timeLayout renders gap boundaries in the report
const timeLayout = "2006-01-02 15:04:05.999999999"

// Formatter renders a continuity report
type Formatter interface {
	Format(w io.Writer, report *domain.ContinuityReport) error
	Name() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return TextFormatter{}, nil
	case "json":
		return JSONFormatter{Indent: true}, nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unknown report format %q", name), nil)
	}
}

// TextFormatter writes the human-readable report
type TextFormatter struct{}

// Name implements Formatter
func (TextFormatter) Name() string { return "text" }

// Format implements Formatter
func (TextFormatter) Format(w io.Writer, report *domain.ContinuityReport) error {
	ew := &errWriter{w: w}

	ew.printf("Dataset loaded successfully.\n")
	ew.printf("Source: %s\n", report.Source)
	ew.printf("Total rows: %d\n", report.TotalRows)
	ew.printf("Gap threshold: %gs\n", report.ThresholdSeconds)

	if len(report.Preview) > 0 {
		ew.printf("First few rows:\n")
		tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(report.Header, "\t"))
		for _, row := range report.Preview {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
	}

	for _, col := range report.Columns {
		ew.printf("\nChecking '%s' column...\n", col.Column)
		ew.printf("Column '%s' has %d NaN/NaT missing values.\n", col.Column, col.Missing)
		if col.Unparseable > 0 {
			ew.printf("  %d of them could not be parsed as timestamps.\n", col.Unparseable)
		}
		if col.Continuous() {
			ew.printf("Column '%s' time series is continuous, no gaps.\n", col.Column)
			continue
		}
		ew.printf("Column '%s' has %d time gaps:\n", col.Column, len(col.Gaps))
		for _, g := range col.Gaps {
			ew.printf("  From %s to %s missing %d seconds.\n",
				g.Start.Format(timeLayout), g.End.Format(timeLayout), g.MissingSeconds)
		}
	}

	missing := make([]string, 0, len(report.Columns))
	gaps := make([]string, 0, len(report.Columns))
	for _, col := range report.Columns {
		missing = append(missing, fmt.Sprintf("%s=%d", col.Column, col.Missing))
		gaps = append(gaps, fmt.Sprintf("%s=%d", col.Column, len(col.Gaps)))
	}
	ew.printf("\nSummary:\n")
	ew.printf("Total NaN/NaT missing: %s\n", strings.Join(missing, ", "))
	ew.printf("Total time gaps: %s\n", strings.Join(gaps, ", "))

	return ew.err
}

// JSONFormatter writes the report as a JSON document
type JSONFormatter struct {
	Indent bool
}

// Name implements Formatter
func (JSONFormatter) Name() string { return "json" }

type jsonSummary struct {
	TotalMissing int `json:"total_missing"`
	TotalGaps    int `json:"total_gaps"`
}

type jsonDocument struct {
	FormatVersion string                   `json:"format_version"`
	Report        *domain.ContinuityReport `json:"report"`
	Summary       jsonSummary              `json:"summary"`
}

// Format implements Formatter
func (f JSONFormatter) Format(w io.Writer, report *domain.ContinuityReport) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(jsonDocument{
		FormatVersion: contracts.ReportFormatVersion,
		Report:        report,
		Summary: jsonSummary{
			TotalMissing: report.TotalMissing(),
			TotalGaps:    report.TotalGaps(),
		},
	})
}

// errWriter keeps the first write error so formatting code stays linear
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}
