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
	input := flag.String("input", "", "CSV file to profile (local path, gs:// or s3:// URI)")
	outDir := flag.String("out", "", "directory for the reports (overrides output_dir)")
	title := flag.String("title", "", "profiling report title")
	workbook := flag.Bool("workbook", false, "also write an Excel workbook of the summaries")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	opts := []config.Option{
		config.WithInputPath(*input),
		config.WithOutputDir(*outDir),
		config.WithQualityTitle(*title),
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "workbook" {
			opts = append(opts, config.WithWorkbook(*workbook))
		}
	})
	os.Exit(app.Main("quality", *configPath, opts, app.Quality))
}
