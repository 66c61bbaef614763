// Package shared holds helpers used across the sensorprep packages that do
// not belong to any one tool.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - a buffered slog handler for asserting on structured log output
//   - CSV fixture builders for the sensor dataset layout
//
// Example usage:
//
//	func TestSplit(t *testing.T) {
//	    dir := t.TempDir()
//	    rows := testutil.SensorRows(start, 100, time.Second)
//	    input := testutil.WriteCSV(t, dir, "merged.csv", testutil.SensorHeader, rows)
//	    ...
//	}
package shared
