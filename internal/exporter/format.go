package exporter

import (
	"strconv"
	"time"
)

// TimestampLayout is the layout used for timestamps in exported files
const TimestampLayout = "2006-01-02 15:04:05"

// formatFloat formats a float64 with the shortest exact representation
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatTime formats a timestamp, keeping sub-second precision when present
func formatTime(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02 15:04:05.999999999")
	}
	return t.Format(TimestampLayout)
}
