package validate

import (
	"fmt"
	"strings"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/semtype"
)

// Sentinel errors. Each error type below matches one of these under
// errors.Is.
var (
	// ErrValidation marks data that failed a validator's checks.
	ErrValidation = errors.New("validation error")

	// ErrImplementation marks a validator that failed for a reason other
	// than invalid data.
	ErrImplementation = errors.New("validator implementation error")

	// ErrTypeMismatch marks an attempt to combine validators of different
	// concrete types.
	ErrTypeMismatch = errors.New("concrete type mismatch")

	// ErrRequiredArguments marks a validator whose parameters are not
	// exactly data and level.
	ErrRequiredArguments = errors.New("validator does not contain the required arguments")

	// ErrMissingView marks a validator with no view type for data.
	ErrMissingView = errors.New("no expected view type")

	// ErrInvalidDescriptor marks a descriptor that is malformed in another way.
	ErrInvalidDescriptor = errors.New("invalid validator descriptor")

	// ErrNoTransformer marks a view that cannot be reached from a concrete
	// type's stored format.
	ErrNoTransformer = errors.New("no transformer to view")

	// ErrUnknownArtifactClass marks a concrete type with no stored format.
	ErrUnknownArtifactClass = errors.New("no artifact class for type")
)

// ValidationError reports that data is invalid. Validators return it to
// describe what is wrong with the data.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ImplementationError reports that a validator failed for a reason that is
// a bug in the plugin rather than a problem with the data.
type ImplementationError struct {
	// Validator is the name of the failing validator.
	Validator string
	// Plugin is the plugin that registered it.
	Plugin string
	// Type is the concrete type under validation.
	Type semtype.Type
	// Data describes the Go type of the data that was being validated.
	Data string
	// Cause is the original error.
	Cause error
}

func (e *ImplementationError) Error() string {
	return fmt.Sprintf("an unexpected error occurred when validator %q from plugin %q attempted to validate %s (%s) but raised an unexpected exception; this is a bug in the plugin, not a problem with the data",
		e.Validator, e.Plugin, e.Type, e.Data)
}

// Unwrap returns the original error.
func (e *ImplementationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrImplementation.
func (e *ImplementationError) Is(target error) bool {
	return target == ErrImplementation
}

// TypeMismatchError reports an attempt to add a record or object whose
// concrete type differs from the receiving object's.
type TypeMismatchError struct {
	// Want is the receiving object's concrete type.
	Want semtype.Type
	// Got is the concrete type that was offered.
	Got semtype.Type
	// Validator is set when a single record was offered.
	Validator string
}

func (e *TypeMismatchError) Error() string {
	if e.Validator != "" {
		return fmt.Sprintf("Unable to add validator %q for %s to validation object for %s: concrete types differ",
			e.Validator, e.Got, e.Want)
	}
	return fmt.Sprintf("Unable to add validation object for %s to validation object for %s: concrete types differ",
		e.Got, e.Want)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// RegistrationError reports a validator whose declared shape is wrong. It
// is raised when the validator is registered, before any plugin is
// installed.
type RegistrationError struct {
	// Validator is the name of the offending validator.
	Validator string
	// Params are the declared parameter names.
	Params []string
	// Err is one of ErrRequiredArguments, ErrMissingView or
	// ErrInvalidDescriptor.
	Err error
	// Detail adds context for ErrInvalidDescriptor.
	Detail string
}

func (e *RegistrationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrRequiredArguments):
		return fmt.Sprintf("validator %q does not contain the required arguments: want (data, level), got (%s)",
			e.Validator, strings.Join(e.Params, ", "))
	case errors.Is(e.Err, ErrMissingView):
		return fmt.Sprintf("No expected view type provided as annotation for `data` variable in validator %q",
			e.Validator)
	default:
		msg := fmt.Sprintf("invalid validator %q", e.Validator)
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		return msg
	}
}

// Unwrap returns the sentinel describing the problem.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// IncompatibleViewError reports, at install time, a validator whose view
// cannot be produced from a concrete type's stored format.
type IncompatibleViewError struct {
	Type      semtype.Type
	Validator string
	Plugin    string
	// Format identifies the stored format; empty when the type has no
	// artifact class at all.
	Format string
	View   string
	Err    error
}

func (e *IncompatibleViewError) Error() string {
	if errors.Is(e.Err, ErrUnknownArtifactClass) {
		return fmt.Sprintf("%s: validator %q from plugin %q needs a transform to view %q, but %s has no registered artifact class (stored format)",
			e.Type, e.Validator, e.Plugin, e.View, e.Type)
	}
	return fmt.Sprintf("%s: validator %q from plugin %q requires a transformer from format %q to view %q, but none is registered",
		e.Type, e.Validator, e.Plugin, e.Format, e.View)
}

// Unwrap returns ErrNoTransformer or ErrUnknownArtifactClass.
func (e *IncompatibleViewError) Unwrap() error {
	return e.Err
}
