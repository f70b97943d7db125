package report

import (
	"fmt"
	"strings"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/validate"
)

// Severity represents the impact of an issue.
type Severity int

const (
	// SeverityError marks data that failed validation.
	SeverityError Severity = iota
	// SeverityCritical marks a validator or transformer fault. The data's
	// validity is unknown.
	SeverityCritical
	// SeverityInfo marks an informational note.
	SeverityInfo
	// SeverityUnreadable marks an artifact that could not be opened as its
	// type, such as a missing file. No validator ran.
	SeverityUnreadable
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	case SeverityInfo:
		return "info"
	case SeverityUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "critical":
		*s = SeverityCritical
	case "info":
		*s = SeverityInfo
	case "unreadable":
		*s = SeverityUnreadable
	default:
		return errors.Newf("unknown severity %q", string(b))
	}
	return nil
}

// Issue is a single failed artifact.
type Issue struct {
	Severity  Severity          `json:"severity"`
	Path      string            `json:"path,omitempty"`
	Type      string            `json:"type,omitempty"`
	Validator string            `json:"validator,omitempty"`
	Plugin    string            `json:"plugin,omitempty"`
	Message   string            `json:"message"`
	Context   map[string]string `json:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Path != "" {
		fmt.Fprintf(&sb, "%s: ", i.Path)
	}
	if i.Type != "" {
		fmt.Fprintf(&sb, "[%s] ", i.Type)
	}
	sb.WriteString(i.Message)
	if i.Validator != "" {
		fmt.Fprintf(&sb, " (validator %q from plugin %q)", i.Validator, i.Plugin)
	}
	return sb.String()
}

// Result aggregates issues for one run.
type Result struct {
	RunID   string  `json:"run_id,omitempty"`
	Level   string  `json:"level,omitempty"`
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

// NewResult creates an empty result.
func NewResult(runID, level string) *Result {
	return &Result{RunID: runID, Level: level, Issues: []Issue{}}
}

// Record counts one checked artifact and, if err is non-nil, adds the
// matching issue.
func (r *Result) Record(path string, t semtype.Type, err error) {
	r.Checked++
	if err == nil {
		return
	}
	r.Issues = append(r.Issues, Classify(path, t, err))
}

// Classify turns a validation outcome into an issue. Data failures are
// SeverityError, validator and transformer faults SeverityCritical, and
// anything else, such as an unopenable file, SeverityUnreadable.
func Classify(path string, t semtype.Type, err error) Issue {
	issue := Issue{Path: path, Type: t.String(), Message: err.Error()}

	var ve *validate.ValidationError
	var ie *validate.ImplementationError
	switch {
	case errors.As(err, &ie):
		issue.Severity = SeverityCritical
		issue.Validator = ie.Validator
		issue.Plugin = ie.Plugin
		if ie.Cause != nil {
			issue.Message = ie.Cause.Error()
		}
		issue.Context = map[string]string{"kind": "implementation"}
	case errors.Is(err, validate.ErrValidation):
		issue.Severity = SeverityError
		if errors.As(err, &ve) {
			issue.Message = ve.Message
		}
	default:
		issue.Severity = SeverityUnreadable
	}
	return issue
}

// AddInfo adds an informational issue.
func (r *Result) AddInfo(path, message string) {
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityInfo,
		Path:     path,
		Message:  message,
	})
}

// HasErrors reports whether any artifact failed validation.
func (r *Result) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasFaults reports whether any validator or transformer faulted.
func (r *Result) HasFaults() bool {
	return len(r.Faults()) > 0
}

// HasUnreadable reports whether any artifact could not be opened.
func (r *Result) HasUnreadable() bool {
	return len(r.Unreadable()) > 0
}

// Errors returns the issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Faults returns the issues with SeverityCritical.
func (r *Result) Faults() []Issue {
	return r.filter(SeverityCritical)
}

// Unreadable returns the issues with SeverityUnreadable.
func (r *Result) Unreadable() []Issue {
	return r.filter(SeverityUnreadable)
}

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}

// Err summarizes the result as an error: nil when every artifact passed,
// marked with validate.ErrImplementation when anything faulted, with
// validate.ErrValidation when data failed, and unmarked when artifacts
// could only not be read.
func (r *Result) Err() error {
	faults, invalid, unreadable := len(r.Faults()), len(r.Errors()), len(r.Unreadable())
	switch {
	case faults > 0:
		return errors.Mark(errors.Newf("%d of %d artifact(s) could not be validated", faults, r.Checked),
			validate.ErrImplementation)
	case invalid > 0:
		return errors.Mark(errors.Newf("%d of %d artifact(s) failed validation", invalid, r.Checked),
			validate.ErrValidation)
	case unreadable > 0:
		return errors.Newf("%d of %d artifact(s) could not be read", unreadable, r.Checked)
	}
	return nil
}
