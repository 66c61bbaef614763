package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"sensorprep/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader streams records from a CSV source with a header row
type Reader struct {
	csv    *csv.Reader
	closer io.Closer
	source string
	header []string
	index  map[string]int
	rows   int
}

// Open opens a local CSV file for streaming
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError("input file not found", err).WithContext("path", path)
		}
		return nil, errors.NewIOError("failed to open input", err).WithContext("path", path)
	}

	r, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader wraps src and reads its header. A leading UTF-8 BOM is dropped.
// Records may have any number of fields; callers reconcile them with the header.
func NewReader(src io.Reader, source string) (*Reader, error) {
	br := bufio.NewReader(src)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewSchemaError("source has no header row").WithContext("source", source)
	}
	if err != nil {
		return nil, errors.NewIOError("failed to read header", err).WithContext("source", source)
	}

	header = append([]string(nil), header...)
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	return &Reader{
		csv:    cr,
		source: source,
		header: header,
		index:  index,
	}, nil
}

// Source returns the name the reader was opened with
func (r *Reader) Source() string {
	return r.source
}

// Header returns the column names in file order
func (r *Reader) Header() []string {
	return r.header
}

// ColumnIndex returns the position of name in the header
func (r *Reader) ColumnIndex(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// RequireColumns returns a schema error listing every absent column
func (r *Reader) RequireColumns(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := r.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingColumnsError(r.source, missing)
	}
	return nil
}

// Read returns the next record, or io.EOF after the last one. A malformed
// record yields a PARSE error and the reader stays usable.
func (r *Reader) Read() ([]string, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var perr *csv.ParseError
		if stderrors.As(err, &perr) {
			return nil, errors.NewParseError("malformed record", err).
				WithContext("source", r.source).
				WithContext("line", perr.StartLine)
		}
		return nil, errors.NewIOError("failed to read record", err).WithContext("source", r.source)
	}
	r.rows++
	return record, nil
}

// Line returns the input line of the most recently read record
func (r *Reader) Line() int {
	line, _ := r.csv.FieldPos(0)
	return line
}

// Rows returns the number of records read so far
func (r *Reader) Rows() int {
	return r.rows
}

// Close releases the underlying file, if the reader owns one
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Fit pads a short record with empty values and reports whether the record
// had more fields than the header.
func Fit(record []string, width int) ([]string, bool) {
	if len(record) > width {
		return record, false
	}
	for len(record) < width {
		record = append(record, "")
	}
	return record, true
}
