package dataset

import (
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorprep/internal/errors"
	"sensorprep/internal/shared/testutil"
)

func TestNewReader(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader []string
		wantRows   [][]string
		wantErr    error
	}{
		{
			name:       "header and rows",
			input:      "a,b\n1,2\n3,4\n",
			wantHeader: []string{"a", "b"},
			wantRows:   [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:       "BOM is stripped from first column",
			input:      "\xEF\xBB\xBFfecha_servidor,x\n2021-05-01 00:00:00,1\n",
			wantHeader: []string{"fecha_servidor", "x"},
			wantRows:   [][]string{{"2021-05-01 00:00:00", "1"}},
		},
		{
			name:       "header only",
			input:      "a,b\n",
			wantHeader: []string{"a", "b"},
		},
		{
			name:       "header names are trimmed",
			input:      " a , b\n",
			wantHeader: []string{"a", "b"},
		},
		{
			name:       "ragged records are returned as-is",
			input:      "a,b\n1\n1,2,3\n",
			wantHeader: []string{"a", "b"},
			wantRows:   [][]string{{"1"}, {"1", "2", "3"}},
		},
		{
			name:    "empty input has no header",
			input:   "",
			wantErr: errors.ErrSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.input), "test.csv")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, r.Header())

			var rows [][]string
			for {
				rec, err := r.Read()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				rows = append(rows, rec)
			}
			assert.Equal(t, tt.wantRows, rows)
			assert.Equal(t, len(tt.wantRows), r.Rows())
		})
	}
}

func TestReader_MalformedRecordIsParseError(t *testing.T) {
	r, err := NewReader(strings.NewReader("a,b\n1,\"x\"y\n2,3\n"), "bad.csv")
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrParse))
	assert.False(t, errors.IsFatal(err))

	// the reader continues past the bad record
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, rec)
}

func TestReader_RequireColumns(t *testing.T) {
	r, err := NewReader(strings.NewReader("fecha_servidor,x\n"), "data.csv")
	require.NoError(t, err)

	assert.NoError(t, r.RequireColumns("fecha_servidor"))

	err = r.RequireColumns("fecha_servidor", "fecha_esp32", "y")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSchema))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, []string{"fecha_esp32", "y"}, appErr.Context["missing_columns"])

	idx, ok := r.ColumnIndex("x")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrIO))
	assert.True(t, errors.IsFatal(err))
}

func TestFit(t *testing.T) {
	rec, ok := Fit([]string{"1"}, 3)
	assert.True(t, ok)
	assert.Equal(t, []string{"1", "", ""}, rec)

	_, ok = Fit([]string{"1", "2", "3", "4"}, 3)
	assert.False(t, ok)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteRaw(t, dir, "data.csv", "a,b\n1,2\n3\n")

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"3", ""}, table.Rows[1])

	col, err := table.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", ""}, col)

	_, err = table.Column("c")
	assert.True(t, stderrors.Is(err, errors.ErrSchema))

	assert.Len(t, table.Head(1), 1)
	assert.Len(t, table.Head(10), 2)
}

func TestReadFile_TooManyFields(t *testing.T) {
	path := testutil.WriteRaw(t, t.TempDir(), "data.csv", "a,b\n1,2,3\n")
	_, err := ReadFile(path)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrIO))
}

func TestCountRecords(t *testing.T) {
	// the quoted newline belongs to one record
	path := testutil.WriteRaw(t, t.TempDir(), "data.csv", "a,b\n1,\"multi\nline\"\n2,3\n")

	n, header, err := CountRecords(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, header)
}
