// Package manifest builds plugins from declarative YAML or TOML files.
//
// A manifest names a plugin and lists validators. Each validator applies a
// built-in rule to a view of the data for every concrete type in its types
// expression:
//
//	plugin:
//	  name: sequences
//	  version: 0.1.0
//	validators:
//	  - name: small_values
//	    types: IntSequence1 | IntSequence2
//	    view: ints
//	    priority: middle
//	    rule: max_value
//	    args:
//	      max: 100
//
// The same document in TOML uses [plugin] and [[validators]] tables. The
// encoding is chosen from the file extension.
//
// Views come from a fixed catalog (see [Views]) and must be reachable
// from the stored format of each type; that is checked when the built
// plugin is installed. Omitted params default to data and level; params
// that are given are checked like any other validator registration.
package manifest
