// Package cli contains the command line interface for nrs.
//
// # Usage
//
// The default command is run, which evaluates a program's cells over every
// row of its bound params:
//
//	nrs -p math_score=10,11,13 -p physics_score=15 -p data_structure_score=5 scores.nrs
//	nrs run -b scores.yaml -q total -o csv scores.nrs
//	nrs run -b scores.toml --where 'total > 105' -j 4 scores.nrs
//
// Other commands validate, format, and configure:
//
//	nrs check scores.nrs
//	nrs fmt scores.nrs
//	nrs fmt yaml scores.nrs
//	nrs init --force
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, nrs under [os.UserConfigDir]. Top-level keys
// name global flags. A key naming a command holds that command's flags:
//
//	log-level: debug
//	run:
//	  format: csv
//	  jobs: 4
//
// Command-line flags override configuration values. The init command writes
// the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o nrs .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     subdirectory of the nrs cache directory)
package cli
