package transform

import (
	"reflect"

	"github.com/johnchase/qiime2/internal/errors"
)

// Typed adapts a typed conversion function to a Func.
func Typed[From, To any](fn func(From) (To, error)) Func {
	return func(v any) (any, error) {
		in, ok := v.(From)
		if !ok {
			return nil, errors.Newf("expected %s, got %T", ViewID(reflect.TypeFor[From]()), v)
		}
		out, err := fn(in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// RegisterTyped adds a transformer built from a typed function.
func RegisterTyped[From, To any](g *Graph, fn func(From) (To, error)) error {
	return g.Register(reflect.TypeFor[From](), reflect.TypeFor[To](), Typed(fn))
}
