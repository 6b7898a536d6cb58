// Package cli contains the command line interface for phoenix.
//
// # Usage
//
//	phoenix [flags] [PATH]
//	phoenix <command> [flags] [args]
//
// Without a command, PATH is run: a script file, or a directory holding a
// Phoenixfile.phnx entry script (default "."). The commands are:
//
//   - run: run a script, optionally printing its value
//   - eval: evaluate source text from the arguments, a file or stdin
//   - dump: run a script and write its variables as YAML or JSON
//   - inputs: run a script and list every script file it read
//   - repl: start an interactive session
//   - init: write the current flag values to the configuration script
//
// Superglobals are defined on the command line with -D NAME=VALUE and read
// by scripts as $$NAME.
//
// # Configuration
//
// Flag defaults are read from config.json and config.phnx in the user
// configuration directory. The latter is a Phoenix script whose top-level
// variables name flags, with '-' written as '_':
//
//	$log_level = "debug";
//	$define = ["CC=clang"];
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/phoenix/pprof)
package cli
