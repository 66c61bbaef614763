package continuity

import (
	"context"
	"io"
	"log/slog"
	"math"
	"slices"
	"time"

	"sensorprep/internal/dataset"
	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts/domain"
)

// cancelCheckInterval is how many rows are read between context checks
const cancelCheckInterval = 10000

// Checker finds gaps in timestamp columns
type Checker struct {
	threshold float64
	logger    *slog.Logger
}

// NewChecker creates a checker that reports gaps longer than thresholdSeconds
func NewChecker(thresholdSeconds float64, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{threshold: thresholdSeconds, logger: logger}
}

// Threshold returns the gap threshold in seconds
func (c *Checker) Threshold() float64 {
	return c.threshold
}

// CheckValues analyzes the raw values of one column
func (c *Checker) CheckValues(column string, values []string) domain.ColumnContinuity {
	result := domain.ColumnContinuity{Column: column, Gaps: []domain.Gap{}}

	stamps := make([]time.Time, 0, len(values))
	for _, v := range values {
		ts, ok := dataset.ParseTimestamp(v)
		if !ok {
			result.Missing++
			if !dataset.IsNA(v) {
				result.Unparseable++
				c.logger.Debug("Unparseable timestamp treated as missing",
					slog.String("column", column),
					slog.String("value", v))
			}
			continue
		}
		stamps = append(stamps, ts)
	}

	result.Valid = len(stamps)
	if len(stamps) == 0 {
		return result
	}

	slices.SortFunc(stamps, func(a, b time.Time) int { return a.Compare(b) })
	first, last := stamps[0], stamps[len(stamps)-1]
	result.First, result.Last = &first, &last
	result.Gaps = DetectGaps(stamps, c.threshold)

	return result
}

// DetectGaps walks sorted timestamps and returns every adjacent pair more than
// thresholdSeconds apart. MissingSeconds never goes below zero, which only
// matters for sub-second thresholds.
func DetectGaps(sorted []time.Time, thresholdSeconds float64) []domain.Gap {
	gaps := []domain.Gap{}
	for i := 1; i < len(sorted); i++ {
		elapsed := elapsedSeconds(sorted[i-1], sorted[i])
		if elapsed <= thresholdSeconds {
			continue
		}
		missing := int64(math.Floor(elapsed)) - 1
		if missing < 0 {
			missing = 0
		}
		gaps = append(gaps, domain.Gap{
			Start:          sorted[i-1],
			End:            sorted[i],
			ElapsedSeconds: elapsed,
			MissingSeconds: missing,
		})
	}
	return gaps
}

// Check streams r, keeping only the requested columns in memory, and checks
// each of them. previewRows leading rows are copied into the report.
func (c *Checker) Check(ctx context.Context, r *dataset.Reader, columns []string, previewRows int) (*domain.ContinuityReport, error) {
	if err := r.RequireColumns(columns...); err != nil {
		return nil, err
	}

	indexes := make([]int, len(columns))
	for i, col := range columns {
		indexes[i], _ = r.ColumnIndex(col)
	}

	report := &domain.ContinuityReport{
		Source:           r.Source(),
		GeneratedAt:      time.Now().UTC(),
		ThresholdSeconds: c.threshold,
		Header:           r.Header(),
	}

	values := make([][]string, len(columns))
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIOError("failed to read input", err).WithContext("source", r.Source())
		}

		if report.TotalRows%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.NewIOError("gap check cancelled", err)
			}
		}
		report.TotalRows++

		if len(report.Preview) < previewRows {
			report.Preview = append(report.Preview, record)
		}
		for i, idx := range indexes {
			v := ""
			if idx < len(record) {
				v = record[idx]
			}
			values[i] = append(values[i], v)
		}
	}

	c.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", r.Source()),
		slog.Int("total_rows", report.TotalRows))

	for i, col := range columns {
		result := c.CheckValues(col, values[i])
		values[i] = nil

		c.logger.InfoContext(ctx, "Column checked",
			slog.String("column", col),
			slog.Int("missing", result.Missing),
			slog.Int("gaps", len(result.Gaps)),
			slog.Int64("missing_seconds", result.MissingSeconds()))

		report.Columns = append(report.Columns, result)
	}

	return report, nil
}

// CheckFile opens path and runs Check on it
func (c *Checker) CheckFile(ctx context.Context, path string, columns []string, previewRows int) (*domain.ContinuityReport, error) {
	r, err := dataset.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return c.Check(ctx, r, columns, previewRows)
}

// elapsedSeconds is b - a in seconds. time.Time.Sub saturates near 292
// years, which a device clock stuck at a bogus year easily exceeds.
func elapsedSeconds(a, b time.Time) float64 {
	return float64(b.Unix()-a.Unix()) + float64(b.Nanosecond()-a.Nanosecond())/1e9
}
