package continuity

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts/domain"
)

func sampleReport() *domain.ContinuityReport {
	return &domain.ContinuityReport{
		Source:           "merged.csv",
		ThresholdSeconds: 1,
		TotalRows:        3,
		Header:           []string{"fecha_servidor", "fecha_esp32"},
		Preview:          [][]string{{ts(0), ts(0)}},
		Columns: []domain.ColumnContinuity{
			{
				Column:  "fecha_servidor",
				Missing: 1,
				Valid:   2,
				Gaps: []domain.Gap{
					{Start: base, End: base.Add(5 * time.Second), ElapsedSeconds: 5, MissingSeconds: 4},
				},
			},
			{Column: "fecha_esp32", Valid: 3, Gaps: []domain.Gap{}},
		},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextFormatter{}.Format(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Total rows: 3")
	assert.Contains(t, out, "Column 'fecha_servidor' has 1 NaN/NaT missing values.")
	assert.Contains(t, out, "Column 'fecha_servidor' has 1 time gaps:")
	assert.Contains(t, out, "  From 2021-05-01 00:00:00 to 2021-05-01 00:00:05 missing 4 seconds.")
	assert.Contains(t, out, "Column 'fecha_esp32' time series is continuous, no gaps.")
	assert.Contains(t, out, "Total NaN/NaT missing: fecha_servidor=1, fecha_esp32=0")
	assert.Contains(t, out, "Total time gaps: fecha_servidor=1, fecha_esp32=0")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONFormatter{}.Format(&buf, sampleReport()))

	var doc struct {
		FormatVersion string                  `json:"format_version"`
		Report        domain.ContinuityReport `json:"report"`
		Summary       struct {
			TotalMissing int `json:"total_missing"`
			TotalGaps    int `json:"total_gaps"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "v1", doc.FormatVersion)
	assert.Equal(t, 1, doc.Summary.TotalMissing)
	assert.Equal(t, 1, doc.Summary.TotalGaps)
	require.Len(t, doc.Report.Columns, 2)
	assert.Equal(t, int64(4), doc.Report.Columns[0].Gaps[0].MissingSeconds)
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("JSON")
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	f, err = NewFormatter("")
	require.NoError(t, err)
	assert.Equal(t, "text", f.Name())

	_, err = NewFormatter("xml")
	assert.True(t, stderrors.Is(err, errors.ErrConfig))
}

func TestReportWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "missing_dates_report.txt")

	require.NoError(t, NewReportWriter(TextFormatter{}).WriteFile(path, sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Summary:")
}

func TestPlotTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gap_timeline.png")
	require.NoError(t, PlotTimeline(sampleReport(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("\x89PNG")))

	pts := GapPoints(sampleReport().Columns[0])
	require.Len(t, pts, 1)
	assert.Equal(t, 4.0, pts[0].Y)
}
