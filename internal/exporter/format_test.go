package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorprep/internal/shared/testutil"
	"sensorprep/pkg/contracts/domain"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "4", formatFloat(4))
	assert.Equal(t, "2.5", formatFloat(2.5))
	assert.Equal(t, "-12", formatInt(-12))

	ts := time.Date(2021, 5, 1, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, "2021-05-01 00:00:01", formatTime(ts))
	assert.Equal(t, "2021-05-01 00:00:01.5", formatTime(ts.Add(500*time.Millisecond)))
}

func TestGapExporter_Export(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	start := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)

	report := domain.ContinuityReport{
		Columns: []domain.ColumnContinuity{
			{
				Column: "fecha_servidor",
				Gaps: []domain.Gap{
					{Start: start, End: start.Add(5 * time.Second), ElapsedSeconds: 5, MissingSeconds: 4},
				},
			},
			{Column: "fecha_esp32"},
		},
	}

	require.NoError(t, NewGapExporter(writer).Export("gaps.csv", report))

	records := testutil.ReadCSV(t, filepath.Join(tempDir, "gaps.csv"))
	assert.Equal(t, [][]string{
		GapHeaders,
		{"fecha_servidor", "2021-05-01 00:00:00", "2021-05-01 00:00:05", "5", "4"},
	}, records)
}

func TestGapRecords_NoGaps(t *testing.T) {
	assert.Empty(t, GapRecords(domain.ContinuityReport{}))
}
