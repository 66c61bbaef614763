package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file the toolkit writes.
// This is the single source of truth for output locations; all of them live under OutputDir
// unless configured as absolute paths.
type Paths struct {
	OutputDir string

	// Gap checker
	GapReportFile string
	GapPlotFile   string
	GapTableFile  string

	// Merger
	MergedFile string

	// Quality reporter
	ProfileFile        string
	QualitySummaryFile string
	WorkbookFile       string

	// Telemetry and logs
	MetricsFile string
	TraceFile   string
	LogFile     string

	partPrefix string
}

// NewPaths resolves all output paths from cfg.
func NewPaths(cfg *Config) (*Paths, error) {
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", cfg.OutputDir, err)
	}

	p := &Paths{
		OutputDir:  outputDir,
		partPrefix: cfg.Split.PartPrefix,
	}
	p.GapReportFile = p.resolve(cfg.Gaps.ReportFile)
	p.GapPlotFile = p.resolve(cfg.Gaps.PlotFile)
	p.GapTableFile = p.resolve(cfg.Gaps.TableFile)
	p.MergedFile = p.resolve(cfg.Merge.OutputFile)
	p.ProfileFile = p.resolve(cfg.Quality.ProfileFile)
	p.QualitySummaryFile = p.resolve(cfg.Quality.SummaryFile)
	p.WorkbookFile = p.resolve(cfg.Quality.WorkbookFile)
	p.MetricsFile = p.resolve(cfg.Telemetry.MetricsFile)
	p.TraceFile = p.resolve(cfg.Telemetry.TraceFile)
	p.LogFile = p.resolve(cfg.Logging.FilePath)

	return p, nil
}

// PartFile returns the path of the 1-based split part, e.g. part_3.csv.
func (p *Paths) PartFile(index int) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s%d.csv", p.partPrefix, index))
}

// EnsureDirectories creates the output directory if it doesn't exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.OutputDir, err)
	}

	slog.Debug("Ensured directory exists",
		slog.String("directory", p.OutputDir))

	return nil
}

// resolve returns name under OutputDir, leaving absolute and empty names unchanged
func (p *Paths) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.OutputDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
