// Package quality profiles a CSV dataset.
//
// A Profiler loads the table and computes, per column:
//   - missing values, as a count and a percentage of rows
//   - the inferred type: int64, float64, bool or object
//   - distinct non-missing values
//   - for numeric columns, describe() statistics, IQR outliers and a histogram
//
// plus the number of duplicate rows in the table.
//
// The resulting domain.QualityReport is rendered three ways: a plain text
// summary (WriteSummary), a self-contained HTML profile with embedded charts
// (HTMLReport), and an optional Excel workbook (WriteWorkbook).
//
// # Type inference
//
// Missing cells are ignored when inferring a type. A column whose remaining
// values are all integers is int64, unless it has missing cells, in which
// case it widens to float64. Boolean columns with missing cells, and columns
// with no values at all, are object.
//
// # Quantiles
//
// Quartiles use linear interpolation between closest ranks, so for
// [1 2 3 4 100] Q1 is 2 and Q3 is 4, and the 1.5 IQR fence is [-1, 7].
package quality
