// Package cli contains the command line interface for actlang.
//
// # Commands
//
//	actlang eval 'concat "hp: " + 1 2'     # evaluate programs (default)
//	actlang run deck.yaml fireball play    # fire a trigger of a card
//	actlang check deck.yaml                # report actions that do not parse
//	actlang fmt yaml prog.act              # print the syntax tree as YAML
//	actlang repl                           # interactive session
//	actlang init                           # write the configuration file
//
// Commands that evaluate programs accept --var NAME=VALUE bindings and
// --decide INDEX answers for choose, and evaluate the global --source
// programs first.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/actlang/config.yaml). Keys are flag
// names; see [loadConfig] for the accepted forms. Command-line flags
// override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o actlang .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/actlang/pprof)
package cli
