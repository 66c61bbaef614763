package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"sensorprep/internal/dataset"
	"sensorprep/internal/errors"
	"sensorprep/internal/quality"
	"sensorprep/pkg/contracts/domain"
)

// Quality profiles the input and writes the summary, the HTML profile and
// optionally the workbook
func Quality(ctx context.Context, a *Application) error {
	cfg := a.Config
	if err := cfg.RequireInput(); err != nil {
		return err
	}

	router := a.newRouter()
	defer router.Close()

	profiler := quality.NewProfiler(quality.Options{
		Title:         cfg.Quality.Title,
		SampleRows:    cfg.Quality.SampleRows,
		HistogramBins: cfg.Quality.HistogramBins,
		IQRMultiplier: cfg.Quality.IQRMultiplier,
	}, a.Logger)

	var report *domain.QualityReport
	err := a.Stage(ctx, "profile", func(ctx context.Context) error {
		in, err := a.openInput(ctx, router, cfg.InputPath)
		if err != nil {
			return err
		}
		defer in.Close()

		table, err := dataset.ReadAll(in.Reader)
		if err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "Dataset loaded successfully",
			slog.Int("rows", table.Len()),
			slog.Int("columns", len(table.Header)))

		report, err = profiler.Profile(ctx, table)
		return err
	})
	if err != nil {
		return err
	}

	metrics := a.OTelProviders.Metrics
	a.Count(ctx, metrics.RowsRead, report.Rows)

	return a.Stage(ctx, "report", func(ctx context.Context) error {
		var summary bytes.Buffer
		if err := quality.WriteSummary(&summary, report); err != nil {
			return err
		}
		if err := os.WriteFile(a.Paths.QualitySummaryFile, summary.Bytes(), 0644); err != nil {
			return errors.NewIOError("failed to write quality summary", err).
				WithContext("path", a.Paths.QualitySummaryFile)
		}
		a.Count(ctx, metrics.FilesWritten, 1)

		if err := quality.WriteHTMLReport(a.Paths.ProfileFile, report); err != nil {
			return err
		}
		a.Count(ctx, metrics.FilesWritten, 1)
		a.Logger.InfoContext(ctx, "Profiling report generated",
			slog.String("report", a.Paths.ProfileFile))

		if cfg.Quality.Workbook {
			if err := quality.WriteWorkbook(a.Paths.WorkbookFile, report); err != nil {
				return err
			}
			a.Count(ctx, metrics.FilesWritten, 1)
		}
		return nil
	})
}
