// Package cmd implements the phoenix subcommands: run, eval, dump, inputs,
// init and repl.
//
// Each command is a kong command struct with a Run(context.Context) method.
// The [kong.Context] of the parse is carried in the context (see
// [WithContext]) so that commands can reach the writers and variables of
// the application.
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the
	// configuration script.
	ConfigIdentifier = "config"
)
