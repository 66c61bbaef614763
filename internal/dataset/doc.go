// Package dataset reads the sensor CSV files every tool consumes.
//
// A Reader streams a CSV source: the header is read on construction and
// rows are returned one at a time, so multi-gigabyte inputs never have to be
// held in memory. ReadAll materializes a Table for tools that need random
// access to whole columns.
//
// # Value coercion
//
// Cells are kept as strings. Helpers coerce them the way the downstream
// analysis expects:
//
//	dataset.IsNA("N/A")                        // true
//	dataset.ParseTimestamp("2021-05-01 00:00:01") // time.Time, nil
//	dataset.ParseFloat("1.5")                  // 1.5, true
//
// # Error Handling
//
// Opening or reading a source fails with an IO error. A source without a
// header, or without a column a tool requires, fails with a SCHEMA error. A
// single malformed record surfaces as a PARSE error carrying the line number;
// callers decide whether to skip it or abort.
package dataset
