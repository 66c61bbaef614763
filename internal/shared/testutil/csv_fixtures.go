package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// SensorHeader is the column layout of the sensor dataset fixtures
var SensorHeader = []string{"fecha_servidor", "fecha_esp32", "temperatura", "humedad"}

// TimestampLayout is how fixtures render timestamps
const TimestampLayout = "2006-01-02 15:04:05"

// SensorRows builds n rows starting at start, one every step. Sensor values
// are derived from the row index so every row is distinct.
func SensorRows(start time.Time, n int, step time.Duration) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * step).Format(TimestampLayout)
		rows = append(rows, []string{
			ts,
			ts,
			fmt.Sprintf("%.1f", 20+float64(i%10)/2),
			fmt.Sprintf("%d", 40+i%7),
		})
	}
	return rows
}

// WriteCSV writes header and rows to dir/name and returns the path
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	if header != nil {
		require.NoError(t, w.Write(header))
	}
	require.NoError(t, w.WriteAll(rows))
	return path
}

// WriteRaw writes content verbatim, for malformed-input cases
func WriteRaw(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadCSV returns every record of a CSV file, header included
func ReadCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}
