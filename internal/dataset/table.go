package dataset

import (
	"io"

	"sensorprep/internal/errors"
)

// Table is an in-memory record table
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

// ReadAll drains r into a Table. Short records are padded to the header
// width; a record with extra fields or a malformed record aborts the read.
func ReadAll(r *Reader) (*Table, error) {
	t := &Table{Source: r.Source(), Header: r.Header()}
	width := len(t.Header)

	for {
		record, err := r.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, errors.NewIOError("failed to read table", err).WithContext("source", r.Source())
		}
		fitted, ok := Fit(record, width)
		if !ok {
			return nil, errors.NewIOError("record has more fields than header", nil).
				WithContext("source", r.Source()).
				WithContext("line", r.Line())
		}
		t.Rows = append(t.Rows, fitted)
	}
}

// ReadFile loads a whole CSV file
func ReadFile(path string) (*Table, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadAll(r)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of name in the header
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns a copy of the named column's values
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, errors.NewMissingColumnsError(t.Source, []string{name})
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Head returns up to n leading rows
func (t *Table) Head(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return t.Rows[:n]
}

// CountRecords counts data records in a CSV file without keeping them.
// Quoted fields spanning several lines count once.
func CountRecords(path string) (int, []string, error) {
	r, err := Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer r.Close()

	for {
		_, err := r.Read()
		if err == io.EOF {
			return r.Rows(), r.Header(), nil
		}
		if err != nil {
			return 0, nil, errors.NewIOError("failed to count records", err).WithContext("source", path)
		}
	}
}
