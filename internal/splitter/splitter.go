package splitter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"sensorprep/internal/dataset"
	"sensorprep/internal/errors"
	"sensorprep/internal/exporter"
	"sensorprep/pkg/contracts/domain"
)

// Options configures a split run
type Options struct {
	NumParts int
	// PartPath names the 1-based part file; defaults to OutputDir/part_<i>.csv
	PartPath  func(index int) string
	OutputDir string
	// FlushEvery is how many records are buffered before a flush
	FlushEvery int
}

// Splitter writes a source CSV into part files
type Splitter struct {
	opts   Options
	writer *exporter.CSVWriter
	logger *slog.Logger
}

// New creates a splitter
func New(opts Options, logger *slog.Logger) (*Splitter, error) {
	if opts.NumParts < 1 {
		return nil, errors.NewAppValidationError(fmt.Sprintf("num_parts must be at least 1, got %d", opts.NumParts))
	}
	if opts.FlushEvery < 1 {
		opts.FlushEvery = 10000
	}
	if opts.PartPath == nil {
		dir := opts.OutputDir
		opts.PartPath = func(i int) string {
			return filepath.Join(dir, fmt.Sprintf("part_%d.csv", i))
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{
		opts:   opts,
		writer: exporter.NewCSVWriter("", logger),
		logger: logger,
	}, nil
}

// RowsPerPart returns ceil(total/parts), the size of every part but the last
func RowsPerPart(total, parts int) int {
	if total <= 0 || parts <= 0 {
		return 0
	}
	return (total + parts - 1) / parts
}

// Split counts the records of inputPath and streams them into part files
func (s *Splitter) Split(ctx context.Context, inputPath string) (*domain.SplitResult, error) {
	s.logger.InfoContext(ctx, "Counting total rows", slog.String("input", inputPath))

	total, header, err := dataset.CountRecords(inputPath)
	if err != nil {
		return nil, err
	}

	rpp := RowsPerPart(total, s.opts.NumParts)
	s.logger.InfoContext(ctx, "Split plan",
		slog.Int("total_rows", total),
		slog.Int("num_parts", s.opts.NumParts),
		slog.Int("rows_per_part", rpp),
		slog.Any("header", header))

	result := &domain.SplitResult{
		Source:         inputPath,
		RequestedParts: s.opts.NumParts,
		RowsPerPart:    rpp,
		TotalRows:      total,
		Header:         header,
	}

	r, err := dataset.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	pw := &partWriter{splitter: s, header: r.Header(), rowsPerPart: rpp}
	defer pw.abort()

	if total == 0 {
		if err := pw.open(1); err != nil {
			return nil, err
		}
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIOError("failed to read source", err).WithContext("source", inputPath)
		}
		if r.Rows()%s.opts.FlushEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.NewIOError("split cancelled", err)
			}
		}
		if err := pw.write(record); err != nil {
			return nil, err
		}
	}

	if err := pw.finish(); err != nil {
		return nil, err
	}
	result.Parts = pw.parts

	if written := result.RowsWritten(); written != total {
		s.logger.WarnContext(ctx, "Source changed between passes",
			slog.Int("counted_rows", total),
			slog.Int("written_rows", written))
	}

	s.logger.InfoContext(ctx, "Split completed",
		slog.Int("parts", len(result.Parts)),
		slog.Int("rows", result.RowsWritten()))

	return result, nil
}

// partWriter holds at most one open part file and rotates to the next one
// once the current part is full. Part N is never rotated away from.
type partWriter struct {
	splitter    *Splitter
	header      []string
	rowsPerPart int

	index  int
	stream *exporter.StreamWriter
	parts  []domain.PartFile
}

func (p *partWriter) open(index int) error {
	path := p.splitter.opts.PartPath(index)
	stream, err := p.splitter.writer.CreateStreamWriter(path, p.header)
	if err != nil {
		return errors.NewIOError("failed to create part file", err).WithContext("path", path)
	}
	p.index = index
	p.stream = stream
	return nil
}

func (p *partWriter) write(record []string) error {
	if p.stream == nil {
		if err := p.open(p.index + 1); err != nil {
			return err
		}
	}

	if err := p.stream.WriteRecord(record); err != nil {
		return errors.NewIOError("failed to write part file", err).WithContext("path", p.stream.Path())
	}

	n := p.stream.Records()
	if n%p.splitter.opts.FlushEvery == 0 {
		if err := p.stream.Flush(); err != nil {
			return errors.NewIOError("failed to flush part file", err).WithContext("path", p.stream.Path())
		}
	}

	if n >= p.rowsPerPart && p.index < p.splitter.opts.NumParts {
		return p.closeCurrent()
	}
	return nil
}

func (p *partWriter) closeCurrent() error {
	if p.stream == nil {
		return nil
	}
	stream := p.stream
	p.stream = nil

	if err := stream.Close(); err != nil {
		return errors.NewIOError("failed to close part file", err).WithContext("path", stream.Path())
	}
	part := domain.PartFile{Index: p.index, Path: stream.Path(), Rows: stream.Records()}
	p.parts = append(p.parts, part)

	p.splitter.logger.Info("Saved part",
		slog.Int("part", part.Index),
		slog.String("path", part.Path),
		slog.Int("rows", part.Rows))
	return nil
}

func (p *partWriter) finish() error {
	return p.closeCurrent()
}

// abort releases an open handle after a failure; the partial file stays
func (p *partWriter) abort() {
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
}
