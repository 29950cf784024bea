// Package profile provides optional runtime profiling for the actlang
// command, for measuring the parser and evaluator on large content files.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without it, [Profiler.Start] returns a no-op, [Modes] is empty, and [Do]
// calls its function directly.
//
// # File Profiles
//
// A [Profiler] with a Mode writes one profile of that kind to Path when it
// is stopped, using [github.com/pkg/profile]:
//
//	defer profile.Profiler{Mode: "cpu", Path: dir}.Start().Stop()
//
// From the command line:
//
//	actlang --pprof-mode cpu check cards.yaml
//	actlang --pprof-mode heap --pprof-dir ./profiles run cards.yaml mill turn
//	go tool pprof -http=: ./profiles/heap.pprof
//
// # HTTP Profiles
//
// A Profiler with an Addr serves the [net/http/pprof] handlers there until it
// is stopped, which suits long interactive sessions:
//
//	actlang --pprof-addr localhost:6060 repl
//	go tool pprof http://localhost:6060/debug/pprof/profile?seconds=10
//
// # Labels
//
// [Do] tags the samples taken while a function runs. The actlang command
// labels every action it fires with its entity and trigger, so a CPU
// profile of a full content file can be broken down per card:
//
//	go tool pprof -tagfocus=entity=fireball cpu.pprof
package profile
