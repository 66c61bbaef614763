package main

import (
	"flag"
	"fmt"
	"os"

	"sensorprep/internal/app"
	"sensorprep/internal/config"
	"sensorprep/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to sensorprep.yaml or configs/sensorprep.yaml)")
	input := flag.String("input", "", "CSV file to check (local path, gs:// or s3:// URI)")
	outDir := flag.String("out", "", "directory for the report files (overrides output_dir)")
	threshold := flag.Float64("threshold", 0, "gap threshold in seconds (overrides gap_threshold_seconds)")
	columns := flag.String("columns", "", "comma-separated timestamp columns (default fecha_servidor,fecha_esp32)")
	format := flag.String("format", "", "report format: text | json")
	plot := flag.Bool("plot", false, "also write a PNG timeline of the gaps")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	opts := []config.Option{
		config.WithInputPath(*input),
		config.WithOutputDir(*outDir),
		config.WithGapThreshold(*threshold),
		config.WithTimestampColumns(*columns),
		config.WithReportFormat(*format),
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "plot" {
			opts = append(opts, config.WithGapPlot(*plot))
		}
	})
	os.Exit(app.Main("gapcheck", *configPath, opts, app.GapCheck))
}
