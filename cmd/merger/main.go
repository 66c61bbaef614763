package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sensorprep/internal/app"
	"sensorprep/internal/config"
	"sensorprep/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to sensorprep.yaml or configs/sensorprep.yaml)")
	out := flag.String("out", "", "merged CSV file (overrides merge.output_file)")
	skipBadLines := flag.Bool("skip-bad-lines", true, "skip lines with more fields than the header instead of failing")
	version := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <source> [source...]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(flag.CommandLine.Output(), "Sources are local files, directories, globs, gs://bucket/key or s3://bucket/key.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	output := *out
	if output != "" {
		abs, err := filepath.Abs(output)
		if err != nil {
			slog.Error("Invalid output path", slog.String("path", output), slog.String("error", err.Error()))
			os.Exit(1)
		}
		output = abs
	}

	opts := []config.Option{
		config.WithMergeSources(flag.Args()),
		config.WithMergeOutput(output),
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "skip-bad-lines" {
			opts = append(opts, config.WithSkipBadLines(*skipBadLines))
		}
	})
	os.Exit(app.Main("merger", *configPath, opts, app.Merge))
}
