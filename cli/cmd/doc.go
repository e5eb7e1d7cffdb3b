// Package cmd implements the nrs subcommands: run, check, fmt, init, and
// version.
//
// Commands read program source from files or stdin and write to stdout.
// [WithStdio] redirects both, and [WithContext] supplies the parsed
// [kong.Context] that init reads flag values from.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file written by init.
	ConfigIdentifier = "config"
)
