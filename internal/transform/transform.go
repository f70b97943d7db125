// Package transform converts stored formats into the views validators ask for.
//
// A [Graph] holds transformer functions keyed by source and destination Go
// type. Paths may span several transformers; [Graph.Transform] applies the
// shortest one.
package transform

import (
	"reflect"
	"sync"

	"github.com/johnchase/qiime2/internal/errors"
)

// Sentinel errors for transformer operations.
var (
	// ErrDuplicateTransformer is returned when a transformer between the
	// same pair of types is registered twice.
	ErrDuplicateTransformer = errors.New("transformer already registered")

	// ErrNoPath is returned when no chain of transformers connects two types.
	ErrNoPath = errors.New("no transformer path")
)

// Func converts a value of the source type into the destination type.
type Func func(any) (any, error)

// Graph is a directed graph of transformers. It is safe for concurrent use.
type Graph struct {
	mu    sync.RWMutex
	edges map[reflect.Type]map[reflect.Type]Func
}

// NewGraph creates an empty transformer graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[reflect.Type]map[reflect.Type]Func)}
}

// Register adds a transformer from one type to another.
func (g *Graph) Register(from, to reflect.Type, fn Func) error {
	if from == nil || to == nil || fn == nil {
		return errors.New("transformer requires source, destination and function")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out, ok := g.edges[from]
	if !ok {
		out = make(map[reflect.Type]Func)
		g.edges[from] = out
	}
	if _, exists := out[to]; exists {
		return errors.Wrapf(ErrDuplicateTransformer, "%s -> %s", ViewID(from), ViewID(to))
	}
	out[to] = fn
	return nil
}

// Has reports whether a direct transformer from one type to another exists.
func (g *Graph) Has(from, to reflect.Type) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.edges[from][to]
	return ok
}

// HasPath reports whether data of type from can be presented as to, either
// directly or through a chain of transformers.
func (g *Graph) HasPath(from, to reflect.Type) bool {
	_, ok := g.path(from, to)
	return ok
}

// Transform presents data as the type to.
func (g *Graph) Transform(data any, to reflect.Type) (any, error) {
	if data == nil {
		return nil, errors.Newf("cannot transform nil data to %s", ViewID(to))
	}
	from := reflect.TypeOf(data)
	steps, ok := g.path(from, to)
	if !ok {
		return nil, errors.Wrapf(ErrNoPath, "from %s to %s", ViewID(from), ViewID(to))
	}

	cur := data
	for _, step := range steps {
		next, err := step(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "transforming %s to %s", ViewID(reflect.TypeOf(cur)), ViewID(to))
		}
		cur = next
	}
	return cur, nil
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := NewGraph()
	for from, out := range g.edges {
		m := make(map[reflect.Type]Func, len(out))
		for to, fn := range out {
			m[to] = fn
		}
		c.edges[from] = m
	}
	return c
}

// Sources returns the number of types that have outgoing transformers.
func (g *Graph) Sources() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

func satisfies(from, to reflect.Type) bool {
	if from == to {
		return true
	}
	return to.Kind() == reflect.Interface && from.Implements(to)
}

// path finds the shortest chain of transformers from one type to another
// with a breadth-first search. An empty chain means no conversion is needed.
func (g *Graph) path(from, to reflect.Type) ([]Func, bool) {
	if from == nil || to == nil {
		return nil, false
	}
	if satisfies(from, to) {
		return nil, true
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	type hop struct {
		prev reflect.Type
		fn   Func
	}
	visited := map[reflect.Type]hop{from: {}}
	queue := []reflect.Type{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for next, fn := range g.edges[cur] {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = hop{prev: cur, fn: fn}
			if satisfies(next, to) {
				var steps []Func
				for t := next; t != from; t = visited[t].prev {
					steps = append(steps, visited[t].fn)
				}
				for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
					steps[i], steps[j] = steps[j], steps[i]
				}
				return steps, true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

// ViewID returns a stable identifier for a Go type, in the form
// "<package path>:<name>" for named types and "builtin:<type>" otherwise.
// Pointers to named types share the identifier of the named type.
func ViewID(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer && t.Elem().Name() != "" {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return "builtin:" + t.String()
	}
	return t.PkgPath() + ":" + t.Name()
}
