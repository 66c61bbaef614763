package app

import (
	"context"
	"log/slog"

	"sensorprep/internal/continuity"
	"sensorprep/internal/exporter"
	"sensorprep/internal/infrastructure"
	"sensorprep/pkg/contracts/domain"
)

// GapCheck checks the timestamp continuity of the configured columns and
// writes the report, the gap table and optionally the timeline plot
func GapCheck(ctx context.Context, a *Application) error {
	cfg := a.Config
	if err := cfg.RequireInput(); err != nil {
		return err
	}
	formatter, err := continuity.NewFormatter(cfg.Gaps.Format)
	if err != nil {
		return err
	}

	router := a.newRouter()
	defer router.Close()

	var report *domain.ContinuityReport
	err = a.Stage(ctx, "check", func(ctx context.Context) error {
		in, err := a.openInput(ctx, router, cfg.InputPath, cfg.Gaps.Columns...)
		if err != nil {
			return err
		}
		defer in.Close()

		checker := continuity.NewChecker(cfg.GapThresholdSeconds, a.Logger)
		report, err = checker.Check(ctx, in.Reader, cfg.Gaps.Columns, cfg.Gaps.PreviewRows)
		return err
	})
	if err != nil {
		return err
	}

	metrics := a.OTelProviders.Metrics
	a.Count(ctx, metrics.RowsRead, report.TotalRows)
	a.Count(ctx, metrics.GapsFound, report.TotalGaps())
	for _, col := range report.Columns {
		infrastructure.AddSpanEvent(ctx, "column checked", map[string]interface{}{
			"column":  col.Column,
			"missing": col.Missing,
			"gaps":    len(col.Gaps),
		})
		a.Count(ctx, metrics.ParseFailures, col.Unparseable)
		a.Count(ctx, metrics.MissingPoints, int(col.MissingSeconds()))
	}

	err = a.Stage(ctx, "report", func(ctx context.Context) error {
		if err := continuity.NewReportWriter(formatter).WriteFile(a.Paths.GapReportFile, report); err != nil {
			return err
		}
		a.Count(ctx, metrics.FilesWritten, 1)

		if a.Paths.GapTableFile != "" {
			gaps := exporter.NewGapExporter(exporter.NewCSVWriter("", a.Logger))
			if err := gaps.Export(a.Paths.GapTableFile, *report); err != nil {
				return err
			}
			a.Count(ctx, metrics.FilesWritten, 1)
		}

		if cfg.Gaps.Plot {
			if err := continuity.PlotTimeline(report, a.Paths.GapPlotFile); err != nil {
				return err
			}
			a.Count(ctx, metrics.FilesWritten, 1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.Logger.InfoContext(ctx, "Gap check complete",
		slog.String("report", a.Paths.GapReportFile),
		slog.Int("total_rows", report.TotalRows),
		slog.Int("total_missing", report.TotalMissing()),
		slog.Int("total_gaps", report.TotalGaps()))
	return nil
}
