// Package output renders evaluation records as JSON, CSV, YAML, or a text
// table, optionally filtered by an expr-lang predicate.
//
// Numbers are written with [FormatNumber] in every format.
package output
