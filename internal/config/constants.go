package config

// Application constants - defaults for every tool in the toolkit
const (
	// Application Info
	AppName    = "sensorprep"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment overrides, e.g. SENSORPREP_NUM_PARTS.
	EnvPrefix = "SENSORPREP"

	// Dataset schema
	ColumnServerTime = "fecha_servidor"
	ColumnDeviceTime = "fecha_esp32"

	// Splitter
	DefaultNumParts   = 10
	DefaultChunkRows  = 10000
	DefaultPartPrefix = "part_"

	// Gap checker
	DefaultGapThresholdSeconds = 1.0
	DefaultGapReportFile       = "missing_dates_report.txt"
	DefaultGapPlotFile         = "gap_timeline.png"
	DefaultGapTableFile        = "missing_dates_gaps.csv"
	DefaultPreviewRows         = 5

	// Merger
	DefaultMergedFile = "merged.csv"

	// Quality reporter
	DefaultProfileTitle       = "Dataset Profiling Report"
	DefaultProfileFile        = "dataset_profile_report.html"
	DefaultQualitySummaryFile = "quality_report.txt"
	DefaultQualityWorkbook    = "quality_report.xlsx"
	DefaultSampleRows         = 10
	DefaultHistogramBins      = 20
	DefaultIQRMultiplier      = 1.5

	// Telemetry
	DefaultMetricsFile = "metrics.prom"
	DefaultTraceFile   = "traces.json"

	// Logging
	DefaultLogFile = "logs/sensorprep.log"
)

// DefaultTimestampColumns returns the columns the gap checker inspects when none are configured.
func DefaultTimestampColumns() []string {
	return []string{ColumnServerTime, ColumnDeviceTime}
}
