package domain

// PartFile is one header-bearing, order-preserving slice of a split CSV
type PartFile struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

// SplitResult describes the outcome of a split run
type SplitResult struct {
	Source         string     `json:"source"`
	RequestedParts int        `json:"requested_parts"`
	RowsPerPart    int        `json:"rows_per_part"`
	TotalRows      int        `json:"total_rows"`
	Header         []string   `json:"header"`
	Parts          []PartFile `json:"parts"`
}

// RowsWritten sums the data rows over all parts
func (r SplitResult) RowsWritten() int {
	total := 0
	for _, p := range r.Parts {
		total += p.Rows
	}
	return total
}

// SourceSummary describes one merged input
type SourceSummary struct {
	URI          string   `json:"uri"`
	Columns      []string `json:"columns"`
	Rows         int      `json:"rows"`
	SkippedLines int      `json:"skipped_lines"`
}

// MergeResult describes the outcome of a merge run
type MergeResult struct {
	Output    string          `json:"output"`
	Columns   []string        `json:"columns"`
	Sources   []SourceSummary `json:"sources"`
	TotalRows int             `json:"total_rows"`
}

// SkippedLines sums malformed lines dropped over all sources
func (r MergeResult) SkippedLines() int {
	total := 0
	for _, s := range r.Sources {
		total += s.SkippedLines
	}
	return total
}
