package doctor

import (
	"sort"
	"time"
)

// Check inspects one aspect of the installation.
type Check interface {
	Name() string
	Category() string
	// Run returns at least one result. Results without a Name or Category
	// inherit the check's.
	Run() []*CheckResult
}

// Runner executes checks in the order they were added.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner returns an empty runner.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// AddCheck appends c to the run.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check and collects the results.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Elapsed:   make(map[string]time.Duration, len(r.checks)),
	}

	for _, check := range r.checks {
		start := r.now()
		results := check.Run()
		report.Elapsed[check.Name()] = r.now().Sub(start)

		for _, res := range results {
			if res.Name == "" {
				res.Name = check.Name()
			}
			if res.Category == "" {
				res.Category = check.Category()
			}
			report.Results = append(report.Results, res)
			report.Summary.add(res.Status)
		}
	}
	return report
}

// Report is the outcome of one doctor run.
type Report struct {
	Timestamp time.Time                `json:"timestamp"`
	Results   []*CheckResult           `json:"results"`
	Summary   Summary                  `json:"summary"`
	Elapsed   map[string]time.Duration `json:"elapsed_ns"`
}

// HasErrors reports whether any result is an error.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any result is a warning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// BySubject groups results by subject, keeping run order within a group.
// Results about a whole check are grouped under "".
func (r *Report) BySubject() map[string][]*CheckResult {
	groups := make(map[string][]*CheckResult)
	for _, res := range r.Results {
		groups[res.Subject] = append(groups[res.Subject], res)
	}
	return groups
}

// Subjects returns the sorted, distinct subjects with a result at or above
// floor.
func (r *Report) Subjects(floor Severity) []string {
	var subjects []string
	for subject, results := range r.BySubject() {
		if subject == "" {
			continue
		}
		for _, res := range results {
			if res.Status >= floor {
				subjects = append(subjects, subject)
				break
			}
		}
	}
	sort.Strings(subjects)
	return subjects
}
