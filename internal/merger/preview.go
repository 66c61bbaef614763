package merger

import (
	"context"
	"log/slog"
	"time"

	"sensorprep/internal/dataset"
)

// preview keeps the first rows of the timestamp columns of the merged output
type preview struct {
	columns []string
	index   []int
	missing []string
	limit   int
	rows    [][]string
}

func newPreview(header, timestampColumns []string, limit int) *preview {
	p := &preview{limit: limit}
	pos := make(map[string]int, len(header))
	for i, c := range header {
		pos[c] = i
	}
	for _, c := range timestampColumns {
		if i, ok := pos[c]; ok {
			p.columns = append(p.columns, c)
			p.index = append(p.index, i)
		} else {
			p.missing = append(p.missing, c)
		}
	}
	return p
}

func (p *preview) add(row []string) {
	if len(p.index) == 0 || len(p.rows) >= p.limit {
		return
	}
	values := make([]string, len(p.index))
	for i, j := range p.index {
		values[i] = row[j]
	}
	p.rows = append(p.rows, values)
}

// parsed returns the preview values coerced to timestamps; unparseable
// values render as NaT
func (p *preview) parsed() [][]string {
	out := make([][]string, len(p.rows))
	for i, row := range p.rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if ts, ok := dataset.ParseTimestamp(v); ok {
				out[i][j] = ts.Format(time.DateTime)
			} else {
				out[i][j] = "NaT"
			}
		}
	}
	return out
}

func (p *preview) log(ctx context.Context, logger *slog.Logger) {
	if len(p.missing) > 0 {
		logger.WarnContext(ctx, "Timestamp columns not found in merged data",
			slog.Any("missing_columns", p.missing))
	}
	if len(p.columns) == 0 || p.limit == 0 {
		return
	}
	logger.InfoContext(ctx, "Timestamp preview",
		slog.Any("columns", p.columns),
		slog.Any("rows", p.parsed()))
}
