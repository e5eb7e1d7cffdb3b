// Package binding reads param values from command-line flags and files.
//
// A flag has the form "name=v1,v2,...". A bindings file is a single mapping
// from param names to a number or a list of numbers, written in YAML, JSON,
// TOML, or HCL:
//
//	# scores.yaml
//	math_score: [10, 11, 13]
//	physics_score: 15
//
//	# scores.toml
//	math_score = [10, 11, 13]
//	physics_score = 15
//
//	# scores.hcl
//	math_score    = [10, 11, 13]
//	physics_score = 3 * 5
//
// Sources are combined with [Merge]; a later source replaces the values of
// any name an earlier one set.
package binding
