package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnchase/qiime2/internal/config"
	"github.com/johnchase/qiime2/internal/doctor"
	"github.com/johnchase/qiime2/internal/errors"
)

var (
	// errDoctorWarnings is returned when checks produced warnings only.
	errDoctorWarnings = errors.New("warnings found")

	// errDoctorErrors is returned when any check failed.
	errDoctorErrors = errors.New("errors found")
)

func newDoctorCmd(a *app) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and plugin issues",
		Long: `Run diagnostic checks on the qval configuration and installed plugins.

Checks the config file, the plugin directories, every manifest plugin, and
looks for validators registered twice for one type.

Output modes:
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			report := runDoctor(a)

			w := c.OutOrStdout()
			switch {
			case a.quiet:
			case asJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return errors.Wrap(err, "encoding JSON")
				}
			default:
				writeDoctorText(w, report, a.verbosity > 0)
			}

			if report.HasErrors() {
				return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
			}
			if report.HasWarnings() {
				return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return c
}

func runDoctor(a *app) *doctor.Report {
	dirs := a.manifestDirs()

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(config.ConfigFileUsed(), a.cfg))
	runner.AddCheck(doctor.NewPluginDirCheck(dirs))
	runner.AddCheck(doctor.NewManifestCheck(dirs, a.cfg.Disabled, a.logger))

	// A failed install is already reported by the manifest check.
	if m, err := a.newManager(); err == nil {
		runner.AddCheck(doctor.NewDuplicateValidatorCheck(m))
	} else {
		a.logger.Debug("skipping duplicate validator check", "error", err)
	}

	return runner.Run()
}

func writeDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		label := result.Name
		if result.Subject != "" {
			label += " " + result.Subject
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, label, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
	if subjects := report.Subjects(doctor.SeverityWarning); len(subjects) > 0 {
		fmt.Fprintf(w, "Needs attention: %s\n", strings.Join(subjects, ", "))
	}
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
