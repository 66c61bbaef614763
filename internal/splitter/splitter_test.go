package splitter

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorprep/internal/errors"
	"sensorprep/internal/shared/testutil"
)

var start = time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)

func newSplitter(t *testing.T, dir string, parts int) *Splitter {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	s, err := New(Options{NumParts: parts, OutputDir: dir, FlushEvery: 3}, logger)
	require.NoError(t, err)
	return s
}

func TestRowsPerPart(t *testing.T) {
	tests := []struct {
		total, parts, want int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{9, 4, 3},
		{3, 10, 1},
		{0, 10, 0},
		{1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.parts), func(t *testing.T) {
			assert.Equal(t, tt.want, RowsPerPart(tt.total, tt.parts))
		})
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		parts     int
		wantSizes []int
	}{
		{name: "even split", total: 20, parts: 4, wantSizes: []int{5, 5, 5, 5}},
		{name: "short last part", total: 23, parts: 4, wantSizes: []int{6, 6, 6, 5}},
		{name: "fewer parts than requested", total: 9, parts: 4, wantSizes: []int{3, 3, 3}},
		{name: "more parts than rows", total: 3, parts: 10, wantSizes: []int{1, 1, 1}},
		{name: "single part", total: 7, parts: 1, wantSizes: []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			rows := testutil.SensorRows(start, tt.total, time.Second)
			input := testutil.WriteCSV(t, dir, "merged.csv", testutil.SensorHeader, rows)
			outDir := filepath.Join(dir, "parts")

			result, err := newSplitter(t, outDir, tt.parts).Split(context.Background(), input)
			require.NoError(t, err)

			assert.Equal(t, tt.total, result.TotalRows)
			assert.Equal(t, tt.total, result.RowsWritten())
			assert.Equal(t, RowsPerPart(tt.total, tt.parts), result.RowsPerPart)

			var sizes []int
			var concatenated [][]string
			for i, part := range result.Parts {
				assert.Equal(t, i+1, part.Index)
				assert.Equal(t, filepath.Join(outDir, fmt.Sprintf("part_%d.csv", i+1)), part.Path)

				records := testutil.ReadCSV(t, part.Path)
				require.NotEmpty(t, records)
				assert.Equal(t, testutil.SensorHeader, records[0], "every part carries the header")
				assert.Equal(t, part.Rows, len(records)-1)

				sizes = append(sizes, part.Rows)
				concatenated = append(concatenated, records[1:]...)
			}

			assert.Equal(t, tt.wantSizes, sizes)
			if diff := cmp.Diff(rows, concatenated); diff != "" {
				t.Errorf("concatenated parts differ from source (-want +got):\n%s", diff)
			}

			// nothing beyond the reported parts is written
			_, err = os.Stat(filepath.Join(outDir, fmt.Sprintf("part_%d.csv", len(result.Parts)+1)))
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestSplit_QuotedFieldsSurvive(t *testing.T) {
	dir := t.TempDir()
	rows := [][]string{
		{"2021-05-01 00:00:00", "a,b", "line1\nline2", ""},
		{"2021-05-01 00:00:01", "\"q\"", "x", "1"},
		{"2021-05-01 00:00:02", "y", "z", "2"},
	}
	input := testutil.WriteCSV(t, dir, "in.csv", testutil.SensorHeader, rows)

	result, err := newSplitter(t, dir, 2).Split(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Parts, 2)

	got := append(testutil.ReadCSV(t, result.Parts[0].Path)[1:], testutil.ReadCSV(t, result.Parts[1].Path)[1:]...)
	assert.Empty(t, cmp.Diff(rows, got))
}

func TestSplit_EmptyTable(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteCSV(t, dir, "empty.csv", testutil.SensorHeader, nil)

	result, err := newSplitter(t, dir, 10).Split(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, result.Parts, 1)
	assert.Equal(t, 0, result.Parts[0].Rows)
	assert.Equal(t, 0, result.RowsPerPart)
	assert.Equal(t, [][]string{testutil.SensorHeader}, testutil.ReadCSV(t, result.Parts[0].Path))
}

func TestSplit_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing input is an IO error", func(t *testing.T) {
		_, err := newSplitter(t, dir, 2).Split(context.Background(), filepath.Join(dir, "absent.csv"))
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrIO))
	})

	t.Run("file without header is a schema error", func(t *testing.T) {
		input := testutil.WriteRaw(t, dir, "blank.csv", "")
		_, err := newSplitter(t, dir, 2).Split(context.Background(), input)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrSchema))
	})

	t.Run("malformed record aborts and is fatal", func(t *testing.T) {
		input := testutil.WriteRaw(t, dir, "bad.csv", "a,b\n1,2\n3,\"x\"y\n")
		_, err := newSplitter(t, filepath.Join(dir, "bad"), 2).Split(context.Background(), input)
		require.Error(t, err)
		assert.True(t, errors.IsFatal(err))
	})

	t.Run("invalid part count", func(t *testing.T) {
		_, err := New(Options{NumParts: 0}, nil)
		assert.True(t, stderrors.Is(err, errors.ErrValidation))
	})
}

func TestSplit_CustomPartPath(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteCSV(t, dir, "in.csv", testutil.SensorHeader, testutil.SensorRows(start, 4, time.Second))

	s, err := New(Options{
		NumParts: 2,
		PartPath: func(i int) string { return filepath.Join(dir, fmt.Sprintf("chunk-%02d.csv", i)) },
	}, nil)
	require.NoError(t, err)

	result, err := s.Split(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Parts, 2)
	assert.Equal(t, filepath.Join(dir, "chunk-02.csv"), result.Parts[1].Path)
}

func TestPartWriter_OverflowGoesToLastPart(t *testing.T) {
	dir := t.TempDir()
	s := newSplitter(t, dir, 2)
	pw := &partWriter{splitter: s, header: []string{"a"}, rowsPerPart: 2}

	// five records with room for four: the fifth lands in part 2
	for i := 0; i < 5; i++ {
		require.NoError(t, pw.write([]string{fmt.Sprint(i)}))
	}
	require.NoError(t, pw.finish())

	require.Len(t, pw.parts, 2)
	assert.Equal(t, 2, pw.parts[0].Rows)
	assert.Equal(t, 3, pw.parts[1].Rows)
	assert.Equal(t, [][]string{{"a"}, {"2"}, {"3"}, {"4"}}, testutil.ReadCSV(t, pw.parts[1].Path))
}
