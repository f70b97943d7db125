package validate

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/semtype"
)

// Transformer presents data as a requested view type.
type Transformer interface {
	Transform(data any, to reflect.Type) (any, error)
}

// Observer is notified after each validator call with the record, the
// time the call took, and its result.
type Observer func(rec Record, elapsed time.Duration, err error)

// state tracks whether records reflect the priority order.
type state int

const (
	stateSorted state = iota
	stateDirty
)

// Object holds the validators for one concrete type.
type Object struct {
	concreteType semtype.Type
	transformer  Transformer
	observer     Observer

	mu      sync.Mutex
	records []Record
	state   state
}

// Option configures an Object.
type Option func(*Object)

// WithTransformer sets the transformer used to present data as each
// record's view. Without one, data must already have the view type.
func WithTransformer(t Transformer) Option {
	return func(o *Object) {
		o.transformer = t
	}
}

// WithObserver registers a callback run after every validator call.
func WithObserver(fn Observer) Option {
	return func(o *Object) {
		o.observer = fn
	}
}

// New creates an empty Object for the concrete type t.
func New(t semtype.Type, opts ...Option) *Object {
	o := &Object{
		concreteType: t,
		state:        stateSorted,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ConcreteType returns the type the object validates.
func (o *Object) ConcreteType() semtype.Type {
	return o.concreteType
}

// AddValidator appends rec. It fails if rec applies to another concrete type.
func (o *Object) AddValidator(rec Record) error {
	if !rec.Context().Equal(o.concreteType) {
		return &TypeMismatchError{Want: o.concreteType, Got: rec.Context(), Validator: rec.Name()}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.records = append(o.records, rec)
	o.state = stateDirty
	return nil
}

// AddObject appends the records of others after the object's own, in the
// order given. If any of them has a different concrete type nothing is
// added. The object is marked unsorted even when others hold no records.
func (o *Object) AddObject(others ...*Object) error {
	batches := make([][]Record, 0, len(others))
	for _, other := range others {
		if other == nil {
			continue
		}
		if !other.concreteType.Equal(o.concreteType) {
			return &TypeMismatchError{Want: o.concreteType, Got: other.concreteType}
		}
		batches = append(batches, other.snapshot())
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, b := range batches {
		o.records = append(o.records, b...)
	}
	o.state = stateDirty
	return nil
}

// Validators returns the records in priority order, sorting first if the
// object was modified since the last read.
func (o *Object) Validators() []Record {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == stateDirty {
		sort.SliceStable(o.records, func(i, j int) bool {
			return o.records[i].validator.Priority.rank() < o.records[j].validator.Priority.rank()
		})
		o.state = stateSorted
	}

	out := make([]Record, len(o.records))
	copy(out, o.records)
	return out
}

// IsSorted reports whether the current record order reflects the priority
// order.
func (o *Object) IsSorted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == stateSorted
}

// Len returns the number of records.
func (o *Object) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

// snapshot copies the records in insertion order without sorting.
func (o *Object) snapshot() []Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Record, len(o.records))
	copy(out, o.records)
	return out
}

// Validate runs every validator against data in priority order and stops
// at the first failure. A returned *ValidationError means the data is
// invalid; a returned *ImplementationError means a validator is broken.
// Success is a nil error.
func (o *Object) Validate(data any, level Level) error {
	for _, rec := range o.Validators() {
		start := time.Now()
		err := o.run(rec, data, level)
		if o.observer != nil {
			o.observer(rec, time.Since(start), err)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *Object) run(rec Record, data any, level Level) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = o.fault(rec, data, errors.Newf("panic: %v", r))
		}
	}()

	view, err := o.present(data, rec.view)
	if err != nil {
		return o.fault(rec, data, err)
	}

	if err := rec.validator.Fn(view, level); err != nil {
		if errors.Is(err, ErrValidation) {
			return err
		}
		return o.fault(rec, data, err)
	}
	return nil
}

// present converts data into view. Data that already satisfies the view is
// passed through, as is nil data.
func (o *Object) present(data any, view reflect.Type) (any, error) {
	if data == nil || view == nil {
		return data, nil
	}
	dt := reflect.TypeOf(data)
	if dt == view || (view.Kind() == reflect.Interface && dt.Implements(view)) {
		return data, nil
	}
	if o.transformer == nil {
		return nil, errors.Newf("no transformer configured to present %T as %s", data, view)
	}
	return o.transformer.Transform(data, view)
}

func (o *Object) fault(rec Record, data any, cause error) *ImplementationError {
	return &ImplementationError{
		Validator: rec.Name(),
		Plugin:    rec.plugin,
		Type:      o.concreteType,
		Data:      fmt.Sprintf("%T", data),
		Cause:     cause,
	}
}
