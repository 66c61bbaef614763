package app

import (
	"context"
	"path/filepath"

	"sensorprep/internal/errors"
	"sensorprep/internal/merger"
	"sensorprep/pkg/contracts/domain"
)

// Merge concatenates the configured sources into the merged output file
func Merge(ctx context.Context, a *Application) error {
	cfg := a.Config
	sources := cfg.Merge.Sources
	if len(sources) == 0 && cfg.InputPath != "" {
		sources = []string{cfg.InputPath}
	}
	if len(sources) == 0 {
		return errors.NewConfigError("no merge sources configured", nil)
	}

	if err := a.Validator.ValidateOutputDirectory(filepath.Dir(a.Paths.MergedFile)); err != nil {
		return err
	}

	router := a.newRouter()
	defer router.Close()

	m := merger.New(router, merger.Options{
		SkipBadLines:     cfg.Merge.SkipBadLines,
		TimestampColumns: cfg.Gaps.Columns,
		PreviewRows:      cfg.Merge.PreviewRows,
		FlushEvery:       cfg.Split.ChunkRows,
	}, a.Logger)

	var result *domain.MergeResult
	err := a.Stage(ctx, "merge", func(ctx context.Context) error {
		var err error
		result, err = m.Merge(ctx, sources, a.Paths.MergedFile)
		return err
	})
	if err != nil {
		return err
	}

	metrics := a.OTelProviders.Metrics
	a.Count(ctx, metrics.RowsRead, result.TotalRows+result.SkippedLines())
	a.Count(ctx, metrics.RowsWritten, result.TotalRows)
	a.Count(ctx, metrics.BadLines, result.SkippedLines())
	a.Count(ctx, metrics.FilesWritten, 1)
	return nil
}
