// Package exporter writes CSV output for the sensorprep tools.
//
// CSVWriter is the shared entry point: whole-file writes through WriteCSV and
// record-at-a-time writes through a StreamWriter, which the splitter and the
// merger use so that large tables are never buffered in memory.
// GapExporter flattens a continuity report into a gap table.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths.OutputDir, logger)
//	stream, err := w.CreateStreamWriter("part_1.csv", header)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	err = stream.WriteRecord(row)
package exporter
