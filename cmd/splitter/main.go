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
	input := flag.String("input", "", "CSV file to split (overrides input_path)")
	outDir := flag.String("out", "", "directory for part_<i>.csv files (overrides output_dir)")
	parts := flag.Int("parts", 0, "number of parts (overrides num_parts)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	opts := []config.Option{
		config.WithInputPath(*input),
		config.WithOutputDir(*outDir),
		config.WithNumParts(*parts),
	}
	os.Exit(app.Main("splitter", *configPath, opts, app.Split))
}
