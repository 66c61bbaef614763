package quality

import (
	"context"
	"log/slog"
	"time"

	"sensorprep/internal/dataset"
	"sensorprep/pkg/contracts/domain"
)

// Options configures profiling
type Options struct {
	Title         string
	SampleRows    int
	HistogramBins int
	IQRMultiplier float64
}

// DefaultOptions returns the profiling defaults
func DefaultOptions() Options {
	return Options{
		Title:         "Dataset Profiling Report",
		SampleRows:    10,
		HistogramBins: 20,
		IQRMultiplier: DefaultIQRMultiplier,
	}
}

// Profiler computes quality reports
type Profiler struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewProfiler creates a profiler; zero options fall back to the defaults
func NewProfiler(opts Options, logger *slog.Logger) *Profiler {
	defaults := DefaultOptions()
	if opts.Title == "" {
		opts.Title = defaults.Title
	}
	if opts.HistogramBins < 1 {
		opts.HistogramBins = defaults.HistogramBins
	}
	if opts.IQRMultiplier <= 0 {
		opts.IQRMultiplier = defaults.IQRMultiplier
	}
	if opts.SampleRows < 0 {
		opts.SampleRows = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{opts: opts, logger: logger, now: time.Now}
}

// ProfileFile loads path and profiles it
func (p *Profiler) ProfileFile(ctx context.Context, path string) (*domain.QualityReport, error) {
	table, err := dataset.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "Dataset loaded successfully",
		slog.String("source", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Header)))
	return p.Profile(ctx, table)
}

// Profile computes every quality measure of table
func (p *Profiler) Profile(ctx context.Context, table *dataset.Table) (*domain.QualityReport, error) {
	rows := table.Len()
	report := &domain.QualityReport{
		Title:       p.opts.Title,
		Source:      table.Source,
		GeneratedAt: p.now(),
		Rows:        rows,
		Header:      table.Header,
		Duplicates:  CountDuplicates(table.Rows),
		Sample:      table.Head(p.opts.SampleRows),
		Columns:     make([]domain.ColumnProfile, 0, len(table.Header)),
	}

	for i, name := range table.Header {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values := make([]string, rows)
		for r, row := range table.Rows {
			values[r] = row[i]
		}
		col := p.profileColumn(name, values)
		p.logger.DebugContext(ctx, "Column profiled",
			slog.String("column", name),
			slog.String("type", string(col.Type)),
			slog.Int("missing", col.Missing))
		report.Columns = append(report.Columns, col)
	}

	p.logger.InfoContext(ctx, "Quality checks complete",
		slog.Int("rows", rows),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("missing_cells", report.MissingCells()),
		slog.Int("numeric_columns", len(report.NumericColumns())))
	return report, nil
}

func (p *Profiler) profileColumn(name string, values []string) domain.ColumnProfile {
	col := domain.ColumnProfile{
		Name:    name,
		Type:    InferType(values),
		Missing: CountMissing(values),
		Unique:  CountUnique(values),
	}
	if len(values) > 0 {
		col.MissingPercentage = float64(col.Missing) / float64(len(values)) * 100
	}

	if !col.Type.IsNumeric() {
		return col
	}

	nums := numericValues(values)
	stats := Describe(nums)
	outliers := Outliers(nums, p.opts.IQRMultiplier, len(values))
	col.Stats = &stats
	col.Outliers = &outliers
	col.Histogram = Histogram(nums, p.opts.HistogramBins)
	return col
}
