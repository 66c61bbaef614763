// Package app wires configuration, logging, telemetry and validation around
// each tool's pipeline.
//
// # Lifecycle
//
// Main drives one run from start to exit:
//
//  1. load configuration (defaults, YAML file, environment, CLI overrides)
//  2. resolve output paths and create the output directory
//  3. initialize the JSON logger and OpenTelemetry providers
//  4. run the pipeline under a fresh run ID and a root span
//  5. flush traces, write the metrics textfile and close the log file
//
// Interrupts cancel the run context. Main returns the process exit code, 0
// on success and 1 on any fatal error, and never calls os.Exit itself.
//
// # Pipelines
//
// GapCheck, Merge, Quality and Split are the four tool bodies. Each reads its
// settings from Application.Config, writes to the paths in
// Application.Paths, and records rows, files and gaps on the shared pipeline
// metrics.
//
// # Usage
//
//	func main() {
//	    configPath := flag.String("config", "", "config file")
//	    flag.Parse()
//	    os.Exit(app.Main("splitter", *configPath, nil, app.Split))
//	}
package app
