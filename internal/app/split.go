package app

import (
	"context"

	"sensorprep/internal/splitter"
	"sensorprep/pkg/contracts/domain"
)

// Split writes the input into num_parts part files
func Split(ctx context.Context, a *Application) error {
	cfg := a.Config
	if err := cfg.RequireInput(); err != nil {
		return err
	}
	if err := a.Validator.ValidateFile(cfg.InputPath); err != nil {
		return err
	}
	if err := a.Validator.ValidateOutputDirectory(a.Paths.OutputDir); err != nil {
		return err
	}

	s, err := splitter.New(splitter.Options{
		NumParts:   cfg.NumParts,
		PartPath:   a.Paths.PartFile,
		OutputDir:  a.Paths.OutputDir,
		FlushEvery: cfg.Split.ChunkRows,
	}, a.Logger)
	if err != nil {
		return err
	}

	var result *domain.SplitResult
	err = a.Stage(ctx, "split", func(ctx context.Context) error {
		var serr error
		result, serr = s.Split(ctx, cfg.InputPath)
		return serr
	})
	if err != nil {
		return err
	}

	metrics := a.OTelProviders.Metrics
	a.Count(ctx, metrics.RowsRead, result.TotalRows)
	a.Count(ctx, metrics.RowsWritten, result.RowsWritten())
	a.Count(ctx, metrics.FilesWritten, len(result.Parts))
	return nil
}
