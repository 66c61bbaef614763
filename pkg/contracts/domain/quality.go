package domain

import (
	"time"
)

// DataType is the inferred storage type of a column
type DataType string

const (
	DataTypeInt64   DataType = "int64"
	DataTypeFloat64 DataType = "float64"
	DataTypeBool    DataType = "bool"
	DataTypeObject  DataType = "object"
)

// IsNumeric reports whether statistics and outliers apply to the type
func (t DataType) IsNumeric() bool {
	return t == DataTypeInt64 || t == DataTypeFloat64
}

// NumericStats mirrors a describe() row for one numeric column.
// Std is the sample standard deviation and is NaN when Count < 2.
type NumericStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// OutlierSummary holds the IQR fence and the number of values outside it
type OutlierSummary struct {
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	IQR        float64 `json:"iqr"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ColumnProfile holds every per-column quality measure
type ColumnProfile struct {
	Name              string          `json:"name"`
	Type              DataType        `json:"type"`
	Missing           int             `json:"missing"`
	MissingPercentage float64         `json:"missing_percentage"`
	Unique            int             `json:"unique"`
	Stats             *NumericStats   `json:"stats,omitempty"`
	Outliers          *OutlierSummary `json:"outliers,omitempty"`
	Histogram         []HistogramBin  `json:"histogram,omitempty"`
}

// HistogramBin is one bucket of a numeric column's distribution
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// QualityReport is the structured output of a quality run
type QualityReport struct {
	Title       string          `json:"title"`
	Source      string          `json:"source"`
	GeneratedAt time.Time       `json:"generated_at"`
	Rows        int             `json:"rows"`
	Header      []string        `json:"header"`
	Duplicates  int             `json:"duplicates"`
	Columns     []ColumnProfile `json:"columns"`
	Sample      [][]string      `json:"sample,omitempty"`
}

// MissingCells sums missing values across all columns
func (r QualityReport) MissingCells() int {
	total := 0
	for _, c := range r.Columns {
		total += c.Missing
	}
	return total
}

// NumericColumns returns the profiles that carry statistics
func (r QualityReport) NumericColumns() []ColumnProfile {
	var out []ColumnProfile
	for _, c := range r.Columns {
		if c.Stats != nil {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns the object-typed profiles
func (r QualityReport) CategoricalColumns() []ColumnProfile {
	var out []ColumnProfile
	for _, c := range r.Columns {
		if c.Type == DataTypeObject {
			out = append(out, c)
		}
	}
	return out
}
