// Package continuity detects gaps in timestamp columns.
//
// Values are coerced to timestamps; blank, NA and unparseable values are
// counted as missing and dropped. The remaining timestamps are sorted and
// every adjacent pair further apart than the threshold becomes a Gap whose
// MissingSeconds is floor(elapsed) - 1, the number of 1-second samples that
// should have been recorded in between. A pair exactly one threshold apart is
// not a gap.
//
// # Usage
//
//	checker := continuity.NewChecker(1.0, logger)
//	report, err := checker.CheckFile(ctx, "merged.csv", []string{"fecha_servidor", "fecha_esp32"}, 5)
//	if err != nil {
//	    return err // IO or SCHEMA, both fatal
//	}
//	err = continuity.NewReportWriter(continuity.TextFormatter{}).WriteFile(path, report)
//
// Rendering is kept out of the checker: a Formatter turns a report into text
// or JSON, and the ReportWriter owns the output file.
package continuity
