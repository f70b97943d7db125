// Package builtin provides the plugin compiled into qval.
//
// It declares three stored formats (integer sequences, tab separated
// mappings and cephalapod descriptions), the concrete types stored in
// them, transformers to the views validators consume, and a small set of
// validators. Manifest plugins build on these formats and views.
package builtin
