package merger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"sensorprep/internal/dataset"
	"sensorprep/internal/errors"
	"sensorprep/internal/exporter"
	"sensorprep/pkg/contracts/domain"
)

// Opener resolves and reads source URIs
type Opener interface {
	Exists(ctx context.Context, uri string) (bool, error)
	Expand(ctx context.Context, uri string) ([]string, error)
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Options configures a merge run
type Options struct {
	SkipBadLines bool
	// TimestampColumns are previewed after the merge
	TimestampColumns []string
	PreviewRows      int
	// FlushEvery is how many records are buffered before a flush
	FlushEvery int
}

// Merger concatenates sources row-wise
type Merger struct {
	opener Opener
	opts   Options
	writer *exporter.CSVWriter
	logger *slog.Logger
}

// New creates a merger reading through opener
func New(opener Opener, opts Options, logger *slog.Logger) *Merger {
	if opts.FlushEvery < 1 {
		opts.FlushEvery = 10000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		opener: opener,
		opts:   opts,
		writer: exporter.NewCSVWriter("", logger),
		logger: logger,
	}
}

// Merge writes the row-wise union of sources to output
func (m *Merger) Merge(ctx context.Context, sources []string, output string) (*domain.MergeResult, error) {
	if len(sources) == 0 {
		return nil, errors.NewAppValidationError("no sources to merge")
	}

	if err := m.checkSources(ctx, sources); err != nil {
		return nil, err
	}

	uris, err := m.expand(ctx, sources)
	if err != nil {
		return nil, err
	}

	headers := make([][]string, len(uris))
	for i, uri := range uris {
		if headers[i], err = m.readHeader(ctx, uri); err != nil {
			return nil, err
		}
	}
	columns := UnionColumns(headers)
	m.logger.InfoContext(ctx, "Merge plan",
		slog.Int("sources", len(uris)),
		slog.Int("columns", len(columns)),
		slog.Any("header", columns))

	out, err := m.writer.CreateStreamWriter(output, columns)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	result := &domain.MergeResult{
		Output:  output,
		Columns: columns,
		Sources: make([]domain.SourceSummary, 0, len(uris)),
	}
	preview := newPreview(columns, m.opts.TimestampColumns, m.opts.PreviewRows)

	for _, uri := range uris {
		summary, err := m.copySource(ctx, uri, columns, out, preview)
		if err != nil {
			return nil, err
		}
		result.Sources = append(result.Sources, summary)
		result.TotalRows += summary.Rows
	}

	if err := out.Close(); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "Merge complete",
		slog.String("output", output),
		slog.Int("total_rows", result.TotalRows),
		slog.Int("skipped_lines", result.SkippedLines()))
	preview.log(ctx, m.logger)

	return result, nil
}

func (m *Merger) checkSources(ctx context.Context, sources []string) error {
	var missing []string
	for _, src := range sources {
		ok, err := m.opener.Exists(ctx, src)
		if err != nil {
			return err
		}
		if !ok {
			missing = append(missing, src)
		}
	}
	if len(missing) > 0 {
		return errors.NewNotFoundError(fmt.Sprintf("sources %v", missing)).
			WithContext("missing_sources", missing)
	}
	return nil
}

func (m *Merger) expand(ctx context.Context, sources []string) ([]string, error) {
	var uris []string
	for _, src := range sources {
		expanded, err := m.opener.Expand(ctx, src)
		if err != nil {
			return nil, err
		}
		if len(expanded) > 1 || expanded[0] != src {
			m.logger.DebugContext(ctx, "Source expanded",
				slog.String("source", src),
				slog.Int("objects", len(expanded)))
		}
		uris = append(uris, expanded...)
	}
	return uris, nil
}

func (m *Merger) readHeader(ctx context.Context, uri string) ([]string, error) {
	rc, err := m.opener.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r, err := dataset.NewReader(rc, uri)
	if err != nil {
		return nil, err
	}
	return r.Header(), nil
}

// copySource streams one source into out, mapping its columns onto the union
func (m *Merger) copySource(ctx context.Context, uri string, columns []string, out *exporter.StreamWriter, preview *preview) (domain.SourceSummary, error) {
	summary := domain.SourceSummary{URI: uri}

	rc, err := m.opener.Open(ctx, uri)
	if err != nil {
		return summary, err
	}
	defer rc.Close()

	r, err := dataset.NewReader(rc, uri)
	if err != nil {
		return summary, err
	}
	header := r.Header()
	summary.Columns = header
	mapping := columnMapping(header, columns)

	m.logger.InfoContext(ctx, "Merging source",
		slog.String("source", uri),
		slog.Int("columns", len(header)))

	for {
		if summary.Rows%m.opts.FlushEvery == 0 && summary.Rows > 0 {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if err := out.Flush(); err != nil {
				return summary, err
			}
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.TypeOf(err) == errors.ErrTypeParse && m.opts.SkipBadLines {
				summary.SkippedLines++
				m.logger.DebugContext(ctx, "Skipping malformed line", slog.Any("error", err))
				continue
			}
			return summary, errors.NewIOError("failed to read source", err).WithContext("source", uri)
		}

		record, ok := dataset.Fit(record, len(header))
		if !ok {
			if m.opts.SkipBadLines {
				summary.SkippedLines++
				continue
			}
			return summary, errors.NewSchemaError(
				fmt.Sprintf("record has %d fields, header has %d", len(record), len(header))).
				WithContext("source", uri).
				WithContext("line", r.Line())
		}

		row := make([]string, len(columns))
		for i, j := range mapping {
			row[j] = record[i]
		}
		if err := out.WriteRecord(row); err != nil {
			return summary, err
		}
		preview.add(row)
		summary.Rows++
	}

	if summary.SkippedLines > 0 {
		m.logger.WarnContext(ctx, "Skipped malformed lines",
			slog.String("source", uri),
			slog.Int("skipped_lines", summary.SkippedLines))
	}
	return summary, nil
}

// UnionColumns returns every column of headers once, in first-seen order
func UnionColumns(headers [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range headers {
		for _, c := range h {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// columnMapping maps each header position to its position in columns. A
// name repeated within one header maps to the union column only once; later
// copies are dropped.
func columnMapping(header, columns []string) map[int]int {
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		pos[c] = i
	}
	mapping := make(map[int]int, len(header))
	used := make(map[string]bool, len(header))
	for i, c := range header {
		if used[c] {
			continue
		}
		used[c] = true
		mapping[i] = pos[c]
	}
	return mapping
}
