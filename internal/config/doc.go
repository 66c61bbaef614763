// Package config provides centralized configuration management for the sensorprep tools.
// It loads configuration from multiple sources, validates it, and derives every
// output path the tools write.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//	1. Default values (config.Default)
//	2. YAML file (explicit -config path, or sensorprep.yaml / configs/sensorprep.yaml)
//	3. Environment variables
//	4. Command-line flags (config.Option values passed to Load)
//
// # Environment Variables
//
// All environment variables follow the pattern SENSORPREP_* for namespacing:
//
//	SENSORPREP_INPUT_PATH=/data/merged.csv
//	SENSORPREP_OUTPUT_DIR=/data/out
//	SENSORPREP_NUM_PARTS=10
//	SENSORPREP_GAP_THRESHOLD_SECONDS=1
//	SENSORPREP_GAPS_COLUMNS=fecha_servidor,fecha_esp32
//	SENSORPREP_LOGGING_LEVEL=debug
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time. A failure is
// returned as a CONFIG error listing the offending fields.
//
// # Usage
//
//	cfg, err := config.Load(*configPath, config.WithInputPath(*input))
//	if err != nil {
//	    os.Exit(1)
//	}
//	paths, err := config.NewPaths(cfg)
package config
