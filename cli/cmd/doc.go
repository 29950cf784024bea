// Package cmd implements the actlang subcommands.
//
// Commands that evaluate programs (eval, run, repl) share the [Bindings]
// flags and build their environment the same way: the standard library,
// then --var bindings, then the prelude programs named by the global
// --source flag.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
