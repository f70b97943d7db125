// Package doctor runs diagnostic checks over qval's configuration and
// installed plugins.
package doctor

// Severity orders check outcomes from harmless to blocking.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText renders the severity by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult is one finding of a check. A check that inspects several
// plugins, manifests or semantic types reports one result per Subject.
type CheckResult struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// Subject is what the finding is about: a config file, a plugin
	// directory, a plugin name or a semantic type. Empty for findings
	// about the check as a whole.
	Subject string         `json:"subject,omitempty"`
	Status  Severity       `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	FixHint string         `json:"fix_hint,omitempty"`
}

// Summary counts results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}
