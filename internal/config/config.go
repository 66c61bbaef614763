package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"sensorprep/internal/errors"
)

// Config represents the complete toolkit configuration
type Config struct {
	InputPath           string  `yaml:"input_path" envconfig:"INPUT_PATH"`
	OutputDir           string  `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	NumParts            int     `yaml:"num_parts" envconfig:"NUM_PARTS" validate:"gte=1"`
	GapThresholdSeconds float64 `yaml:"gap_threshold_seconds" envconfig:"GAP_THRESHOLD_SECONDS" validate:"gt=0"`

	Gaps      GapsConfig      `yaml:"gaps" envconfig:"GAPS"`
	Split     SplitConfig     `yaml:"split" envconfig:"SPLIT"`
	Merge     MergeConfig     `yaml:"merge" envconfig:"MERGE"`
	Quality   QualityConfig   `yaml:"quality" envconfig:"QUALITY"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// GapsConfig contains gap checker configuration
type GapsConfig struct {
	Columns     []string `yaml:"columns" envconfig:"COLUMNS" validate:"min=1,dive,required"`
	ReportFile  string   `yaml:"report_file" envconfig:"REPORT_FILE" validate:"required"`
	Format      string   `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	PreviewRows int      `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"gte=0"`
	Plot        bool     `yaml:"plot" envconfig:"PLOT"`
	PlotFile    string   `yaml:"plot_file" envconfig:"PLOT_FILE"`
	TableFile   string   `yaml:"table_file" envconfig:"TABLE_FILE"`
}

// SplitConfig contains splitter configuration
type SplitConfig struct {
	ChunkRows  int    `yaml:"chunk_rows" envconfig:"CHUNK_ROWS" validate:"gte=1"`
	PartPrefix string `yaml:"part_prefix" envconfig:"PART_PREFIX" validate:"required"`
}

// MergeConfig contains merger configuration
type MergeConfig struct {
	Sources      []string `yaml:"sources" envconfig:"SOURCES"`
	OutputFile   string   `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
	SkipBadLines bool     `yaml:"skip_bad_lines" envconfig:"SKIP_BAD_LINES"`
	PreviewRows  int      `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"gte=0"`
}

// QualityConfig contains quality reporter configuration
type QualityConfig struct {
	Title         string  `yaml:"title" envconfig:"TITLE" validate:"required"`
	ProfileFile   string  `yaml:"profile_file" envconfig:"PROFILE_FILE" validate:"required"`
	SummaryFile   string  `yaml:"summary_file" envconfig:"SUMMARY_FILE" validate:"required"`
	Workbook      bool    `yaml:"workbook" envconfig:"WORKBOOK"`
	WorkbookFile  string  `yaml:"workbook_file" envconfig:"WORKBOOK_FILE"`
	SampleRows    int     `yaml:"sample_rows" envconfig:"SAMPLE_ROWS" validate:"gte=0"`
	HistogramBins int     `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" validate:"gte=1"`
	IQRMultiplier float64 `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" validate:"gt=0"`
}

// StorageConfig contains object store client configuration
type StorageConfig struct {
	GCSCredentialsFile string `yaml:"gcs_credentials_file" envconfig:"GCS_CREDENTIALS_FILE"`
	GCSEndpoint        string `yaml:"gcs_endpoint" envconfig:"GCS_ENDPOINT"`
	S3Region           string `yaml:"s3_region" envconfig:"S3_REGION"`
	S3Endpoint         string `yaml:"s3_endpoint" envconfig:"S3_ENDPOINT"`
	Anonymous          bool   `yaml:"anonymous" envconfig:"ANONYMOUS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Option overrides a loaded configuration value, typically from a CLI flag.
type Option func(*Config)

// WithInputPath overrides input_path when path is non-empty.
func WithInputPath(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.InputPath = path
		}
	}
}

// WithOutputDir overrides output_dir when dir is non-empty.
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.OutputDir = dir
		}
	}
}

// WithNumParts overrides num_parts when n is positive.
func WithNumParts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.NumParts = n
		}
	}
}

// WithGapThreshold overrides gap_threshold_seconds when seconds is positive.
func WithGapThreshold(seconds float64) Option {
	return func(c *Config) {
		if seconds > 0 {
			c.GapThresholdSeconds = seconds
		}
	}
}

// WithTimestampColumns overrides the gap checker columns from a comma-separated list.
func WithTimestampColumns(list string) Option {
	return func(c *Config) {
		if cols := splitList(list); len(cols) > 0 {
			c.Gaps.Columns = cols
		}
	}
}

// WithMergeSources overrides merge sources when any are given.
func WithMergeSources(sources []string) Option {
	return func(c *Config) {
		if len(sources) > 0 {
			c.Merge.Sources = sources
		}
	}
}

// WithReportFormat overrides the gap report format when format is non-empty.
func WithReportFormat(format string) Option {
	return func(c *Config) {
		if format != "" {
			c.Gaps.Format = strings.ToLower(format)
		}
	}
}

// WithGapPlot sets whether the gap timeline plot is written.
func WithGapPlot(enabled bool) Option {
	return func(c *Config) {
		c.Gaps.Plot = enabled
	}
}

// WithMergeOutput overrides the merged output file when path is non-empty.
func WithMergeOutput(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.Merge.OutputFile = path
		}
	}
}

// WithSkipBadLines sets whether malformed lines are skipped while merging.
func WithSkipBadLines(skip bool) Option {
	return func(c *Config) {
		c.Merge.SkipBadLines = skip
	}
}

// WithQualityTitle overrides the profiling report title when title is non-empty.
func WithQualityTitle(title string) Option {
	return func(c *Config) {
		if title != "" {
			c.Quality.Title = title
		}
	}
}

// WithWorkbook sets whether the quality workbook is written.
func WithWorkbook(enabled bool) Option {
	return func(c *Config) {
		c.Quality.Workbook = enabled
	}
}

// Load builds the configuration from defaults, the YAML file at path (or the
// first file found in the default locations when path is empty), environment
// variables and finally opts. Environment values take precedence over the file.
func Load(path string, opts ...Option) (*Config, error) {
	cfg := Default()

	configFile, err := resolveConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).
				WithContext("config_file", configFile)
		}
	}

	// Load from environment variables; unset variables leave file values alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolveConfigFile returns the explicit path if given, otherwise the first default location that exists
func resolveConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", errors.NewConfigError("config file not readable", err).
				WithContext("config_file", path)
		}
		return path, nil
	}

	locations := []string{
		"sensorprep.yaml",
		"configs/sensorprep.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", nil // No config file found, use env vars only
}

// Validate checks struct constraints and normalizes logging settings.
func (c *Config) Validate() error {
	// Always JSON
	c.Logging.Format = "json"
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fmt.Sprintf("%s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return errors.NewConfigError("config validation failed", err).
				WithContext("invalid_fields", fields)
		}
		return errors.NewConfigError("config validation failed", err)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// RequireInput returns a config error when no input path is configured.
func (c *Config) RequireInput() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return errors.NewConfigError("input_path is required", nil)
	}
	return nil
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		OutputDir:           ".",
		NumParts:            DefaultNumParts,
		GapThresholdSeconds: DefaultGapThresholdSeconds,
		Gaps: GapsConfig{
			Columns:     DefaultTimestampColumns(),
			ReportFile:  DefaultGapReportFile,
			Format:      "text",
			PreviewRows: DefaultPreviewRows,
			PlotFile:    DefaultGapPlotFile,
			TableFile:   DefaultGapTableFile,
		},
		Split: SplitConfig{
			ChunkRows:  DefaultChunkRows,
			PartPrefix: DefaultPartPrefix,
		},
		Merge: MergeConfig{
			OutputFile:   DefaultMergedFile,
			SkipBadLines: true,
			PreviewRows:  DefaultPreviewRows,
		},
		Quality: QualityConfig{
			Title:         DefaultProfileTitle,
			ProfileFile:   DefaultProfileFile,
			SummaryFile:   DefaultQualitySummaryFile,
			WorkbookFile:  DefaultQualityWorkbook,
			SampleRows:    DefaultSampleRows,
			HistogramBins: DefaultHistogramBins,
			IQRMultiplier: DefaultIQRMultiplier,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			TraceFile:     DefaultTraceFile,
			EnableMetrics: true,
			MetricsFile:   DefaultMetricsFile,
		},
	}
}
