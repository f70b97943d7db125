package validate

import (
	"reflect"

	"github.com/johnchase/qiime2/internal/semtype"
)

// Func checks data presented as a record's view. It returns nil when the
// data is valid, a *ValidationError when it is not, and anything else is
// treated as a bug in the validator.
type Func func(data any, level Level) error

// Validator is a named validation routine with its ordering tier.
type Validator struct {
	Name     string
	Priority Priority
	Fn       Func
}

// Record binds a validator to a single concrete type. Records are values
// and are not modified after construction.
type Record struct {
	validator Validator
	view      reflect.Type
	plugin    string
	context   semtype.Type
}

// NewRecord creates a record for the concrete type ctx.
func NewRecord(v Validator, view reflect.Type, plugin string, ctx semtype.Type) Record {
	return Record{
		validator: v,
		view:      view,
		plugin:    plugin,
		context:   ctx,
	}
}

// Validator returns the validator routine.
func (r Record) Validator() Validator { return r.validator }

// View returns the type the data is presented as before the validator runs.
func (r Record) View() reflect.Type { return r.view }

// Plugin returns the name of the plugin that registered the validator.
func (r Record) Plugin() string { return r.plugin }

// Context returns the concrete type the record applies to.
func (r Record) Context() semtype.Type { return r.context }

// Name is shorthand for r.Validator().Name.
func (r Record) Name() string { return r.validator.Name }
