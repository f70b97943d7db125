package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/johnchase/qiime2/internal/errors"
)

// Format specifies the output format for reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.Newf("unknown output format %q (want text or json)", s)
}

// Reporter formats and writes results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportJSON(result *Result) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(result), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	invalid := result.Errors()
	faults := result.Faults()
	unreadable := result.Unreadable()

	if len(invalid) == 0 && len(faults) == 0 && len(unreadable) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ %d artifact(s) valid", result.Checked))
		return nil
	}

	summary := []string{}
	if len(invalid) > 0 {
		summary = append(summary, color.RedString("%d invalid", len(invalid)))
	}
	if len(faults) > 0 {
		summary = append(summary, color.MagentaString("%d fault(s)", len(faults)))
	}
	if len(unreadable) > 0 {
		summary = append(summary, color.YellowString("%d unreadable", len(unreadable)))
	}
	fmt.Fprintf(r.out, "Validation failed: %s of %d artifact(s)\n\n", strings.Join(summary, ", "), result.Checked)

	if len(invalid) > 0 {
		fmt.Fprintln(r.out, "Invalid:")
		for _, i := range invalid {
			r.printIssue(i, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	if len(faults) > 0 {
		fmt.Fprintln(r.out, "Faults:")
		for _, i := range faults {
			r.printIssue(i, color.FgMagenta)
		}
		fmt.Fprintln(r.out)
	}

	if len(unreadable) > 0 {
		fmt.Fprintln(r.out, "Unreadable:")
		for _, i := range unreadable {
			r.printIssue(i, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}

	return nil
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	// Format:  • path [type]: message (context)

	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Path != "" {
		sb.WriteString(printer(i.Path))
	}
	if i.Type != "" {
		fmt.Fprintf(&sb, " [%s]", i.Type)
	}
	if i.Path != "" || i.Type != "" {
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	ctx := make(map[string]string, len(i.Context)+2)
	for k, v := range i.Context {
		ctx[k] = v
	}
	if i.Validator != "" {
		ctx["validator"] = i.Validator
	}
	if i.Plugin != "" {
		ctx["plugin"] = i.Plugin
	}
	if len(ctx) > 0 {
		var ctxParts []string
		for k, v := range ctx {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%s", k, v))
		}
		// Sort for deterministic output
		sort.Strings(ctxParts)

		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", strings.Join(ctxParts, ", ")))
	}

	fmt.Fprintln(r.out, sb.String())
}
