package domain

import (
	"time"
)

// Gap is a discontinuity between two consecutive sorted timestamps whose
// distance exceeds the expected cadence.
type Gap struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	// MissingSeconds is floor(elapsed) - 1, the number of 1-second samples absent
	MissingSeconds int64 `json:"missing_seconds"`
}

// ColumnContinuity is the gap-check result for one timestamp column
type ColumnContinuity struct {
	Column string `json:"column"`
	// Missing counts blank, NA and unparseable values; they are excluded from gaps
	Missing int `json:"missing"`
	// Unparseable is the part of Missing that held a non-blank, non-NA value
	Unparseable int        `json:"unparseable"`
	Valid       int        `json:"valid"`
	First       *time.Time `json:"first,omitempty"`
	Last        *time.Time `json:"last,omitempty"`
	Gaps        []Gap      `json:"gaps"`
}

// Continuous reports whether the column has no gaps
func (c ColumnContinuity) Continuous() bool {
	return len(c.Gaps) == 0
}

// MissingSeconds sums the missing seconds over all gaps
func (c ColumnContinuity) MissingSeconds() int64 {
	var total int64
	for _, g := range c.Gaps {
		total += g.MissingSeconds
	}
	return total
}

// LargestGap returns the gap with the most missing seconds, or nil
func (c ColumnContinuity) LargestGap() *Gap {
	var largest *Gap
	for i := range c.Gaps {
		if largest == nil || c.Gaps[i].MissingSeconds > largest.MissingSeconds {
			largest = &c.Gaps[i]
		}
	}
	return largest
}

// ContinuityReport is the structured output of a gap check run
type ContinuityReport struct {
	Source           string             `json:"source"`
	GeneratedAt      time.Time          `json:"generated_at"`
	ThresholdSeconds float64            `json:"threshold_seconds"`
	TotalRows        int                `json:"total_rows"`
	Header           []string           `json:"header"`
	Preview          [][]string         `json:"preview,omitempty"`
	Columns          []ColumnContinuity `json:"columns"`
}

// TotalMissing sums missing values over all checked columns
func (r ContinuityReport) TotalMissing() int {
	total := 0
	for _, c := range r.Columns {
		total += c.Missing
	}
	return total
}

// TotalGaps sums gaps over all checked columns
func (r ContinuityReport) TotalGaps() int {
	total := 0
	for _, c := range r.Columns {
		total += len(c.Gaps)
	}
	return total
}

// Column returns the result for name, if it was checked
func (r ContinuityReport) Column(name string) (ColumnContinuity, bool) {
	for _, c := range r.Columns {
		if c.Column == name {
			return c, true
		}
	}
	return ColumnContinuity{}, false
}
