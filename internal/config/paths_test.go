package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	cfg := Default()
	cfg.OutputDir = outDir
	cfg.Quality.WorkbookFile = "/abs/quality.xlsx"

	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, outDir, paths.OutputDir)
	assert.Equal(t, filepath.Join(outDir, "missing_dates_report.txt"), paths.GapReportFile)
	assert.Equal(t, filepath.Join(outDir, "gap_timeline.png"), paths.GapPlotFile)
	assert.Equal(t, filepath.Join(outDir, "missing_dates_gaps.csv"), paths.GapTableFile)
	assert.Equal(t, filepath.Join(outDir, "merged.csv"), paths.MergedFile)
	assert.Equal(t, filepath.Join(outDir, "dataset_profile_report.html"), paths.ProfileFile)
	assert.Equal(t, filepath.Join(outDir, "quality_report.txt"), paths.QualitySummaryFile)
	assert.Equal(t, "/abs/quality.xlsx", paths.WorkbookFile)
	assert.Equal(t, filepath.Join(outDir, "metrics.prom"), paths.MetricsFile)
	assert.Equal(t, filepath.Join(outDir, "logs", "sensorprep.log"), paths.LogFile)
}

func TestPaths_PartFile(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = t.TempDir()
	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.OutputDir, "part_1.csv"), paths.PartFile(1))
	assert.Equal(t, filepath.Join(cfg.OutputDir, "part_10.csv"), paths.PartFile(10))

	cfg.Split.PartPrefix = "chunk-"
	paths, err = NewPaths(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "chunk-2.csv"), paths.PartFile(2))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "a", "b")
	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	info, err := os.Stat(cfg.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.True(t, FileExists(cfg.OutputDir))
	assert.False(t, FileExists(filepath.Join(cfg.OutputDir, "missing")))
}
