package semtype

import (
	"strings"
)

// Type is a concrete (non-union) semantic type. Fields parameterize the
// type, as Dog does in Kennel[Dog].
type Type struct {
	Name   string
	Fields []Type
}

// New returns a concrete type with the given name and fields.
func New(name string, fields ...Type) Type {
	return Type{Name: name, Fields: fields}
}

// String renders the canonical form of the type, e.g. "Kennel[Dog]".
func (t Type) String() string {
	if len(t.Fields) == 0 {
		return t.Name
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	sb.WriteByte('[')
	for i, f := range t.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Key returns a string that is equal for two types iff they are Equal.
// It is suitable as a map key.
func (t Type) Key() string {
	return t.String()
}

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool {
	return t.Name == "" && len(t.Fields) == 0
}

// Equal reports whether t and other denote the same concrete type.
func (t Type) Equal(other Type) bool {
	if t.Name != other.Name || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i := range t.Fields {
		if !t.Fields[i].Equal(other.Fields[i]) {
			return false
		}
	}
	return true
}

// Members implements Expression; a concrete type expands to itself.
func (t Type) Members() []Type {
	return []Type{t}
}

// Expression is a type-expression that expands to concrete member types.
type Expression interface {
	// Members returns the concrete types of the expression, without
	// duplicates, in the order they were written.
	Members() []Type
	String() string
}

// union is an Expression over several expressions.
type union struct {
	members []Type
}

// Union joins expressions into a single expression. Nested unions are
// flattened and duplicate members are dropped.
func Union(exprs ...Expression) Expression {
	var members []Type
	seen := make(map[string]struct{})
	for _, e := range exprs {
		if e == nil {
			continue
		}
		for _, m := range e.Members() {
			if _, ok := seen[m.Key()]; ok {
				continue
			}
			seen[m.Key()] = struct{}{}
			members = append(members, m)
		}
	}
	if len(members) == 1 {
		return members[0]
	}
	return union{members: members}
}

func (u union) Members() []Type {
	out := make([]Type, len(u.members))
	copy(out, u.members)
	return out
}

func (u union) String() string {
	parts := make([]string, len(u.members))
	for i, m := range u.members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
