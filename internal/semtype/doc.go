// Package semtype is a minimal semantic type system.
//
// A [Type] is a concrete semantic type such as IntSequence1 or Kennel[Dog].
// An [Expression] is anything that expands to one or more concrete types; a
// Type is an expression of itself, and [Union] joins several expressions.
//
// Expressions can be written as strings and read back with [Parse]:
//
//	expr, err := semtype.Parse("IntSequence1 | Kennel[Dog]")
//	for _, t := range expr.Members() {
//	    fmt.Println(t) // IntSequence1, Kennel[Dog]
//	}
package semtype
