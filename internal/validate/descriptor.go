package validate

import (
	"reflect"
	"slices"

	"github.com/johnchase/qiime2/internal/errors"
)

// Parameter names every validator must declare.
const (
	ParamData  = "data"
	ParamLevel = "level"
)

// RequiredParams are the parameters a validator must declare, in
// conventional order.
var RequiredParams = []string{ParamData, ParamLevel}

// Descriptor declares a validator's interface: its parameter names and the
// view type its data parameter expects.
type Descriptor struct {
	Name     string
	Params   []string
	View     reflect.Type
	Priority Priority
	Func     Func
}

// Check verifies the descriptor's shape. It reports, in this order, a
// missing name or function, parameters other than exactly data and level,
// a missing view type, and an unknown priority.
func (d Descriptor) Check() error {
	if d.Name == "" {
		return &RegistrationError{Err: ErrInvalidDescriptor, Params: d.Params, Detail: "name is required"}
	}
	if d.Func == nil {
		return &RegistrationError{Validator: d.Name, Err: ErrInvalidDescriptor, Params: d.Params, Detail: "function is nil"}
	}
	if !hasRequiredParams(d.Params) {
		return &RegistrationError{Validator: d.Name, Params: d.Params, Err: ErrRequiredArguments}
	}
	if d.View == nil {
		return &RegistrationError{Validator: d.Name, Params: d.Params, Err: ErrMissingView}
	}
	if !d.Priority.Valid() {
		return &RegistrationError{
			Validator: d.Name,
			Params:    d.Params,
			Err:       errors.Mark(ErrInvalidDescriptor, ErrInvalidPriority),
			Detail:    "priority " + d.Priority.String(),
		}
	}
	return nil
}

// Validator returns the routine described by d.
func (d Descriptor) Validator() Validator {
	return Validator{Name: d.Name, Priority: d.Priority, Fn: d.Func}
}

// hasRequiredParams reports whether params is exactly {data, level} in
// any order.
func hasRequiredParams(params []string) bool {
	if len(params) != len(RequiredParams) {
		return false
	}
	sorted := slices.Clone(params)
	slices.Sort(sorted)
	return slices.Equal(sorted, []string{ParamData, ParamLevel})
}
