package quality

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts/domain"
)

// WriteSummary writes the console quality summary: missing values,
// duplicates, data types, numerical statistics, categorical unique counts
// and IQR outliers.
func WriteSummary(w io.Writer, report *domain.QualityReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := func(format string, args ...any) {
		fmt.Fprintf(tw, format, args...)
	}

	p("Dataset: %s\n", report.Source)
	p("Shape: (%d, %d)\n", report.Rows, len(report.Header))

	p("\n=== MISSING VALUES ===\n")
	p("Column\tMissing Count\tMissing Percentage\n")
	for _, c := range report.Columns {
		p("%s\t%d\t%.2f\n", c.Name, c.Missing, c.MissingPercentage)
	}

	p("\nDuplicates count: %d\n", report.Duplicates)

	p("\n=== DATA TYPES ===\n")
	for _, c := range report.Columns {
		p("%s\t%s\n", c.Name, c.Type)
	}

	if numeric := report.NumericColumns(); len(numeric) > 0 {
		p("\n=== NUMERICAL STATISTICS ===\n")
		p("column\tcount\tmean\tstd\tmin\t25%%\t50%%\t75%%\tmax\n")
		for _, c := range numeric {
			s := c.Stats
			p("%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", c.Name, s.Count,
				num(s.Mean), num(s.Std), num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max))
		}
	}

	if categorical := report.CategoricalColumns(); len(categorical) > 0 {
		p("\n=== CATEGORICAL UNIQUE COUNTS ===\n")
		for _, c := range categorical {
			p("%s: %d\n", c.Name, c.Unique)
		}
	}

	p("\n=== OUTLIERS (IQR Method) ===\n")
	for _, c := range report.NumericColumns() {
		p("%s: %d (%.2f%%)\n", c.Name, c.Outliers.Count, c.Outliers.Percentage)
	}

	if err := tw.Flush(); err != nil {
		return errors.NewIOError("failed to write quality summary", err)
	}
	return nil
}

// num renders a statistic, NaN included
func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}
