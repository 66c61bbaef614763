package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorprep/internal/config"
	"sensorprep/internal/errors"
	"sensorprep/internal/infrastructure"
	"sensorprep/internal/shared/testutil"
)

var fixtureStart = time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)

// writeConfig writes a config file rooted in a temp output directory
func writeConfig(t *testing.T, extra string) (path, outDir string) {
	t.Helper()
	dir := t.TempDir()
	outDir = filepath.Join(dir, "out")
	content := fmt.Sprintf("output_dir: %s\nlogging:\n  level: warn\n  output: console\n%s", outDir, extra)
	path = testutil.WriteRaw(t, dir, "sensorprep.yaml", content)
	return path, outDir
}

func newTestApp(t *testing.T, tool, extra string, opts ...config.Option) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfgPath, _ := writeConfig(t, extra)
	a, err := NewApplication(tool, cfgPath, opts...)
	require.NoError(t, err)
	return a
}

func TestNewApplication(t *testing.T) {
	a := newTestApp(t, "splitter", "num_parts: 4\n")
	defer a.Shutdown()

	assert.Equal(t, "splitter", a.Name)
	assert.Equal(t, 4, a.Config.NumParts)
	assert.DirExists(t, a.Paths.OutputDir)
	assert.Equal(t, filepath.Join(a.Paths.OutputDir, "metrics.prom"), a.Paths.MetricsFile)
	assert.NotNil(t, a.OTelProviders.Metrics)
	assert.NotNil(t, a.Validator)
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	defer infrastructure.ResetLoggerForTesting()

	cfgPath, _ := writeConfig(t, "num_parts: -1\n")
	_, err := NewApplication("splitter", cfgPath)
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeConfig, errors.TypeOf(err))
}

func TestSplitPipeline(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteCSV(t, dir, "big.csv", testutil.SensorHeader, testutil.SensorRows(fixtureStart, 10, time.Second))

	a := newTestApp(t, "splitter", "num_parts: 3\n", config.WithInputPath(input))
	require.NoError(t, a.Run(context.Background(), Split))
	require.NoError(t, a.Shutdown())

	wantRows := []int{4, 4, 2}
	for i, want := range wantRows {
		records := testutil.ReadCSV(t, filepath.Join(a.Paths.OutputDir, fmt.Sprintf("part_%d.csv", i+1)))
		assert.Equal(t, testutil.SensorHeader, records[0])
		assert.Len(t, records, want+1, "part %d", i+1)
	}
	assert.NoFileExists(t, filepath.Join(a.Paths.OutputDir, "part_4.csv"))

	metrics, err := os.ReadFile(a.Paths.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "sensorprep_rows_written_total")
	assert.Contains(t, string(metrics), `tool="splitter"`)
}

func TestGapCheckPipeline(t *testing.T) {
	dir := t.TempDir()
	rows := [][]string{
		{"2021-05-01 00:00:00", "2021-05-01 00:00:00", "20.1", "40"},
		{"2021-05-01 00:00:01", "2021-05-01 00:00:01", "20.2", "41"},
		{"2021-05-01 00:00:02", "", "20.3", "42"},
		{"2021-05-01 00:00:07", "2021-05-01 00:00:07", "20.4", "43"},
	}
	input := testutil.WriteCSV(t, dir, "sensors.csv", testutil.SensorHeader, rows)

	a := newTestApp(t, "gapcheck", "gaps:\n  plot: true\n", config.WithInputPath(input))
	require.NoError(t, a.Run(context.Background(), GapCheck))
	require.NoError(t, a.Shutdown())

	report, err := os.ReadFile(a.Paths.GapReportFile)
	require.NoError(t, err)
	text := string(report)
	assert.Contains(t, text, "Column 'fecha_servidor' has 0 NaN/NaT missing values.")
	assert.Contains(t, text, "Column 'fecha_esp32' has 1 NaN/NaT missing values.")
	assert.Contains(t, text, "missing 4 seconds.")

	table := testutil.ReadCSV(t, a.Paths.GapTableFile)
	require.Len(t, table, 3)
	assert.Equal(t, []string{"column", "start", "end", "elapsed_seconds", "missing_seconds"}, table[0])
	assert.Equal(t, "fecha_servidor", table[1][0])
	assert.Equal(t, "4", table[1][4])

	assert.FileExists(t, a.Paths.GapPlotFile)
}

func TestGapCheckPipeline_MissingColumn(t *testing.T) {
	input := testutil.WriteCSV(t, t.TempDir(), "sensors.csv", []string{"fecha_servidor", "v"}, nil)

	a := newTestApp(t, "gapcheck", "", config.WithInputPath(input))
	defer a.Shutdown()

	err := a.Run(context.Background(), GapCheck)
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeSchema, errors.TypeOf(err))
	assert.Equal(t, 1, errors.ExitCode(err))
}

func TestMergePipeline(t *testing.T) {
	dir := t.TempDir()
	a1 := testutil.WriteCSV(t, dir, "1mayo.csv", testutil.SensorHeader, testutil.SensorRows(fixtureStart, 3, time.Second))
	a2 := testutil.WriteCSV(t, dir, "2mayo.csv", testutil.SensorHeader, testutil.SensorRows(fixtureStart.Add(time.Hour), 2, time.Second))

	a := newTestApp(t, "merger", "", config.WithMergeSources([]string{a1, a2}))
	require.NoError(t, a.Run(context.Background(), Merge))
	require.NoError(t, a.Shutdown())

	merged := testutil.ReadCSV(t, a.Paths.MergedFile)
	assert.Len(t, merged, 6)
	assert.Equal(t, testutil.SensorHeader, merged[0])
}

func TestMergePipeline_NoSources(t *testing.T) {
	a := newTestApp(t, "merger", "")
	defer a.Shutdown()

	err := a.Run(context.Background(), Merge)
	assert.Equal(t, errors.ErrTypeConfig, errors.TypeOf(err))
}

func TestQualityPipeline(t *testing.T) {
	input := testutil.WriteCSV(t, t.TempDir(), "sensors.csv", testutil.SensorHeader, testutil.SensorRows(fixtureStart, 30, time.Second))

	a := newTestApp(t, "quality", "quality:\n  workbook: true\n", config.WithInputPath(input))
	require.NoError(t, a.Run(context.Background(), Quality))
	require.NoError(t, a.Shutdown())

	summary, err := os.ReadFile(a.Paths.QualitySummaryFile)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "=== MISSING VALUES ===")

	html, err := os.ReadFile(a.Paths.ProfileFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(html), "<!DOCTYPE html>"))

	assert.FileExists(t, a.Paths.WorkbookFile)
}

func TestMain_ExitCodes(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	defer infrastructure.ResetLoggerForTesting()

	cfgPath, _ := writeConfig(t, "")
	code := Main("splitter", cfgPath,
		[]config.Option{config.WithInputPath(filepath.Join(t.TempDir(), "missing.csv"))}, Split)
	assert.Equal(t, 1, code)

	infrastructure.ResetLoggerForTesting()
	code = Main("splitter", cfgPath, nil, func(context.Context, *Application) error { return nil })
	assert.Equal(t, 0, code)

	infrastructure.ResetLoggerForTesting()
	code = Main("splitter", filepath.Join(t.TempDir(), "nope.yaml"), nil, Split)
	assert.Equal(t, 1, code)
}

func TestErrorAttrs(t *testing.T) {
	attrs := ErrorAttrs(errors.NewSchemaError("no header").WithContext("source", "a.csv"))
	assert.Len(t, attrs, 3)

	attrs = ErrorAttrs(fmt.Errorf("wrapped: %w", context.Canceled))
	assert.Len(t, attrs, 2)

	attrs = ErrorAttrs(stderrors.New("plain"))
	assert.Len(t, attrs, 1)
}

func TestMain_RecoversPanic(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	defer infrastructure.ResetLoggerForTesting()

	cfgPath, outDir := writeConfig(t, "")
	code := Main("splitter", cfgPath, nil, func(ctx context.Context, a *Application) error {
		a.Count(ctx, a.OTelProviders.Metrics.RowsRead, 7)
		panic("boom")
	})
	assert.Equal(t, 1, code)

	// telemetry is still flushed on the panic path
	metrics, err := os.ReadFile(filepath.Join(outDir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "sensorprep_rows_read_total")
}
