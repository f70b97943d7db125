package validate

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/validate/mocks"
)

var (
	intSequence1   = semtype.New("IntSequence1")
	ascIntSequence = semtype.New("AscIntSequence")
	squid          = semtype.New("Squid")
	octopus        = semtype.New("Octopus")
)

func noop(any, Level) error { return nil }

func newRecord(name string, prio Priority, ctx semtype.Type, fn Func) Record {
	if fn == nil {
		fn = noop
	}
	return NewRecord(Validator{Name: name, Priority: prio, Fn: fn}, reflect.TypeFor[[]int](), "this_plugin", ctx)
}

func names(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name()
	}
	return out
}

func TestNew(t *testing.T) {
	for _, typ := range []semtype.Type{intSequence1, squid, semtype.New("Kennel", semtype.New("Dog"))} {
		t.Run(typ.String(), func(t *testing.T) {
			obj := New(typ)
			assert.True(t, obj.ConcreteType().Equal(typ))
			assert.Empty(t, obj.Validators())
			assert.Equal(t, 0, obj.Len())
			assert.True(t, obj.IsSorted())
		})
	}
}

func TestObject_AddValidator(t *testing.T) {
	obj := New(intSequence1)
	rec := newRecord("test_validator_method", PriorityMiddle, intSequence1, nil)

	require.NoError(t, obj.AddValidator(rec))
	assert.False(t, obj.IsSorted())
	assert.Equal(t, 1, obj.Len())
	assert.Equal(t, []string{"test_validator_method"}, names(obj.Validators()))
}

func TestObject_AddValidator_TypeMismatch(t *testing.T) {
	obj := New(squid)
	rec := newRecord("octopus_validator", PriorityMiddle, octopus, nil)

	err := obj.AddValidator(rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	var mismatch *TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "octopus_validator", mismatch.Validator)
	assert.Contains(t, err.Error(), "Unable to add")
	assert.Contains(t, err.Error(), "Squid")
	assert.Contains(t, err.Error(), "Octopus")

	assert.Equal(t, 0, obj.Len())
	assert.True(t, obj.IsSorted())
}

func TestObject_AddObject(t *testing.T) {
	first := New(intSequence1)
	second := New(intSequence1)
	require.NoError(t, first.AddValidator(newRecord("first_validator", PriorityMiddle, intSequence1, nil)))
	require.NoError(t, second.AddValidator(newRecord("second_validator", PriorityMiddle, intSequence1, nil)))

	// Sort first so the merge has something to reset.
	first.Validators()
	require.True(t, first.IsSorted())

	require.NoError(t, first.AddObject(second))
	assert.False(t, first.IsSorted())
	assert.Equal(t, []string{"first_validator", "second_validator"}, names(first.Validators()))

	// The source object is untouched.
	assert.Equal(t, []string{"second_validator"}, names(second.Validators()))
}

func TestObject_AddObject_EmptyStillDirty(t *testing.T) {
	obj := New(intSequence1)
	require.True(t, obj.IsSorted())

	require.NoError(t, obj.AddObject(New(intSequence1)))
	assert.False(t, obj.IsSorted())
	assert.Empty(t, obj.Validators())
}

func TestObject_AddObject_Several(t *testing.T) {
	base := New(squid)
	a, b := New(squid), New(squid)
	require.NoError(t, a.AddValidator(newRecord("a", PriorityMiddle, squid, nil)))
	require.NoError(t, b.AddValidator(newRecord("b", PriorityMiddle, squid, nil)))

	require.NoError(t, base.AddObject(a, nil, b))
	assert.Equal(t, []string{"a", "b"}, names(base.Validators()))
}

func TestObject_AddObject_Self(t *testing.T) {
	obj := New(squid)
	require.NoError(t, obj.AddValidator(newRecord("a", PriorityMiddle, squid, nil)))
	require.NoError(t, obj.AddObject(obj))
	assert.Equal(t, []string{"a", "a"}, names(obj.Validators()))
}

func TestObject_AddObject_DifferentConcreteTypes(t *testing.T) {
	squidObj := New(squid)
	octopusObj := New(octopus)
	require.NoError(t, squidObj.AddValidator(newRecord("squid_validator", PriorityMiddle, squid, nil)))
	require.NoError(t, octopusObj.AddValidator(newRecord("octopus_validator", PriorityMiddle, octopus, nil)))
	squidObj.Validators()

	err := squidObj.AddObject(octopusObj)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.Contains(t, err.Error(), "Unable to add")
	assert.Contains(t, err.Error(), "Squid")
	assert.Contains(t, err.Error(), "Octopus")

	// Neither object changed.
	assert.True(t, squidObj.IsSorted())
	assert.Equal(t, []string{"squid_validator"}, names(squidObj.Validators()))
	assert.Equal(t, []string{"octopus_validator"}, names(octopusObj.Validators()))
}

func TestObject_AddObject_MismatchInBatchAddsNothing(t *testing.T) {
	obj := New(squid)
	ok := New(squid)
	require.NoError(t, ok.AddValidator(newRecord("fine", PriorityMiddle, squid, nil)))

	err := obj.AddObject(ok, New(octopus))
	require.Error(t, err)
	assert.Equal(t, 0, obj.Len())
}

func TestObject_Validators_Memoized(t *testing.T) {
	obj := New(intSequence1)
	require.NoError(t, obj.AddValidator(newRecord("first_validator", PriorityMiddle, intSequence1, nil)))
	require.NoError(t, obj.AddValidator(newRecord("second_validator", PriorityMiddle, intSequence1, nil)))

	first := names(obj.Validators())
	assert.True(t, obj.IsSorted())
	second := names(obj.Validators())

	assert.Equal(t, []string{"first_validator", "second_validator"}, first)
	assert.Equal(t, first, second)
	assert.True(t, obj.IsSorted())
}

func TestObject_Validators_ReturnsCopy(t *testing.T) {
	obj := New(squid)
	require.NoError(t, obj.AddValidator(newRecord("a", PriorityMiddle, squid, nil)))

	recs := obj.Validators()
	recs[0] = newRecord("z", PriorityMiddle, squid, nil)
	assert.Equal(t, []string{"a"}, names(obj.Validators()))
}

func permutations(items []string) [][]string {
	if len(items) <= 1 {
		return [][]string{append([]string(nil), items...)}
	}
	var out [][]string
	for i := range items {
		rest := make([]string, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{items[i]}, p...))
		}
	}
	return out
}

func TestObject_Validators_PriorityTiers(t *testing.T) {
	tiers := map[string]Priority{
		"validator_sort_first":    PriorityFirst,
		"validator_sort_middle":   PriorityMiddle,
		"validator_sort_middle_b": PriorityMiddleB,
		"validator_sort_last":     PriorityLast,
	}
	exp := []string{"validator_sort_first", "validator_sort_middle", "validator_sort_middle_b", "validator_sort_last"}
	exp2 := []string{"validator_sort_first", "validator_sort_middle_b", "validator_sort_middle", "validator_sort_last"}

	for _, order := range permutations(exp) {
		t.Run(strings.Join(order, ","), func(t *testing.T) {
			obj := New(squid)
			for _, name := range order {
				require.NoError(t, obj.AddValidator(newRecord(name, tiers[name], squid, nil)))
			}
			require.False(t, obj.IsSorted())

			got := names(obj.Validators())
			assert.Contains(t, [][]string{exp, exp2}, got)
			assert.True(t, obj.IsSorted())
		})
	}
}

func TestObject_Validators_StableWithinTier(t *testing.T) {
	obj := New(squid)
	for _, r := range []Record{
		newRecord("last_1", PriorityLast, squid, nil),
		newRecord("first_1", PriorityFirst, squid, nil),
		newRecord("mid_1", PriorityMiddle, squid, nil),
		newRecord("first_2", PriorityFirst, squid, nil),
		newRecord("last_2", PriorityLast, squid, nil),
		newRecord("first_3", PriorityFirst, squid, nil),
	} {
		require.NoError(t, obj.AddValidator(r))
	}

	assert.Equal(t, []string{"first_1", "first_2", "first_3", "mid_1", "last_1", "last_2"}, names(obj.Validators()))
}

func TestObject_Validate_RunsValidators(t *testing.T) {
	obj := New(intSequence1)

	var calls []string
	record := func(name string, prio Priority) Record {
		return newRecord(name, prio, intSequence1, func(data any, level Level) error {
			calls = append(calls, name)
			assert.Equal(t, []int{0, 1, 2}, data)
			assert.Equal(t, LevelMax, level)
			return nil
		})
	}
	require.NoError(t, obj.AddValidator(record("late", PriorityLast)))
	require.NoError(t, obj.AddValidator(record("early", PriorityFirst)))

	require.NoError(t, obj.Validate([]int{0, 1, 2}, LevelMax))
	assert.Equal(t, []string{"early", "late"}, calls)
}

func TestObject_Validate_Empty(t *testing.T) {
	assert.NoError(t, New(squid).Validate([]int{}, LevelMin))
}

func TestObject_Validate_ValidationError(t *testing.T) {
	obj := New(ascIntSequence)
	failure := NewValidationError("2021-08-24")
	ranAfter := false

	require.NoError(t, obj.AddValidator(newRecord("test_raising_validation_exception", PriorityMiddle, ascIntSequence,
		func(any, Level) error { return failure })))
	require.NoError(t, obj.AddValidator(newRecord("after", PriorityLast, ascIntSequence,
		func(any, Level) error { ranAfter = true; return nil })))

	err := obj.Validate([]int{}, "")
	require.Error(t, err)
	assert.Same(t, failure, err)
	assert.Equal(t, "2021-08-24", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, ranAfter, "validators after a failure must not run")
}

func TestObject_Validate_WrappedValidationErrorUnchanged(t *testing.T) {
	obj := New(ascIntSequence)
	wrapped := fmt.Errorf("line 3: %w", NewValidationError("values are not ascending"))
	require.NoError(t, obj.AddValidator(newRecord("ascending", PriorityMiddle, ascIntSequence,
		func(any, Level) error { return wrapped })))

	err := obj.Validate([]int{3, 1}, LevelMax)
	assert.Same(t, wrapped, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "values are not ascending", verr.Message)
}

func TestObject_Validate_UnexpectedError(t *testing.T) {
	obj := New(ascIntSequence)
	cause := errors.New("2021-08-24")
	ranAfter := false

	require.NoError(t, obj.AddValidator(newRecord("test_raising_key_error", PriorityMiddle, ascIntSequence,
		func(any, Level) error { return cause })))
	require.NoError(t, obj.AddValidator(newRecord("after", PriorityLast, ascIntSequence,
		func(any, Level) error { ranAfter = true; return nil })))

	err := obj.Validate([]int{}, "")
	require.Error(t, err)
	assert.False(t, ranAfter)

	assert.True(t, errors.Is(err, ErrImplementation))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "attempted to validate")
	assert.Contains(t, err.Error(), "test_raising_key_error")
	assert.Contains(t, err.Error(), "this_plugin")
	assert.Contains(t, err.Error(), "AscIntSequence")
	assert.NotContains(t, err.Error(), cause.Error())

	var implErr *ImplementationError
	require.True(t, errors.As(err, &implErr))
	assert.Equal(t, "test_raising_key_error", implErr.Validator)
	assert.Equal(t, "this_plugin", implErr.Plugin)
	assert.True(t, implErr.Type.Equal(ascIntSequence))
	assert.Equal(t, "[]int", implErr.Data)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestObject_Validate_Panic(t *testing.T) {
	obj := New(squid)
	require.NoError(t, obj.AddValidator(newRecord("index_out_of_range", PriorityMiddle, squid,
		func(data any, _ Level) error {
			_ = data.([]int)[5]
			return nil
		})))

	err := obj.Validate([]int{}, LevelMin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImplementation))
	assert.Contains(t, err.Error(), "index_out_of_range")
	require.Error(t, errors.Unwrap(err))
	assert.Contains(t, errors.Unwrap(err).Error(), "panic")
}

func TestObject_Validate_UsesTransformer(t *testing.T) {
	tr := mocks.NewMockTransformer(t)
	tr.EXPECT().Transform("0\n1\n2", reflect.TypeFor[[]int]()).Return([]int{0, 1, 2}, nil).Once()

	obj := New(intSequence1, WithTransformer(tr))
	var got any
	require.NoError(t, obj.AddValidator(newRecord("capture", PriorityMiddle, intSequence1,
		func(data any, _ Level) error { got = data; return nil })))

	require.NoError(t, obj.Validate("0\n1\n2", LevelMax))
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestObject_Validate_TransformFailureIsImplementationError(t *testing.T) {
	tr := mocks.NewMockTransformer(t)
	tr.EXPECT().Transform("x", reflect.TypeFor[[]int]()).Return(nil, errors.New("not an integer: x"))

	obj := New(intSequence1, WithTransformer(tr))
	called := false
	require.NoError(t, obj.AddValidator(newRecord("never", PriorityMiddle, intSequence1,
		func(any, Level) error { called = true; return nil })))

	err := obj.Validate("x", LevelMax)
	require.Error(t, err)
	assert.False(t, called)
	assert.True(t, errors.Is(err, ErrImplementation))
	assert.NotContains(t, err.Error(), "not an integer")
	require.Error(t, errors.Unwrap(err))
	assert.Contains(t, errors.Unwrap(err).Error(), "not an integer: x")
}

func TestObject_Validate_NoTransformer(t *testing.T) {
	obj := New(intSequence1)
	require.NoError(t, obj.AddValidator(newRecord("needs_ints", PriorityMiddle, intSequence1, nil)))

	err := obj.Validate("0\n1", LevelMax)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImplementation))
	require.Error(t, errors.Unwrap(err))
	assert.Contains(t, errors.Unwrap(err).Error(), "no transformer configured")
}

func TestObject_Validate_Observer(t *testing.T) {
	type call struct {
		name string
		err  error
	}
	var calls []call
	obj := New(squid, WithObserver(func(rec Record, elapsed time.Duration, err error) {
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		calls = append(calls, call{rec.Name(), err})
	}))
	failure := NewValidationError("too few tentacles")
	require.NoError(t, obj.AddValidator(newRecord("ok", PriorityFirst, squid, nil)))
	require.NoError(t, obj.AddValidator(newRecord("bad", PriorityMiddle, squid, func(any, Level) error { return failure })))

	err := obj.Validate([]int{}, LevelMin)
	require.Error(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "ok", calls[0].name)
	assert.NoError(t, calls[0].err)
	assert.Equal(t, "bad", calls[1].name)
	assert.Same(t, failure, calls[1].err)
}

func TestObject_ConcurrentValidate(t *testing.T) {
	obj := New(squid)
	for i := range 10 {
		require.NoError(t, obj.AddValidator(newRecord(fmt.Sprintf("v%d", i), Priority(i%4), squid, nil)))
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, obj.Validate([]int{1}, LevelMin))
		}()
	}
	wg.Wait()
	assert.True(t, obj.IsSorted())
}
